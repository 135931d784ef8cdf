package models

// ServiceRequest is a paid micro-service listing subject to negotiation.
// FinalPrice, Provider and ProviderPhone are set together, exactly once,
// when an offer moves the request into negotiating.
type ServiceRequest struct {
	ID             string          `json:"id"`
	Requester      string          `json:"requester"`
	ServiceName    string          `json:"serviceName"`
	SuggestedPrice int             `json:"suggestedPrice"`
	FinalPrice     int             `json:"finalPrice,omitempty"`
	Phone          string          `json:"phone"`
	DeliveryMethod string          `json:"deliveryMethod"`
	MetroStation   string          `json:"metroStation"`
	LocationLink   string          `json:"locationLink"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
	Status         string          `json:"status"`
	Provider       string          `json:"provider,omitempty"`
	ProviderPhone  string          `json:"providerPhone,omitempty"`
}

// Terminal reports whether no further transition is possible.
func (r ServiceRequest) Terminal() bool {
	switch r.Status {
	case StatusAccepted, StatusRejected, StatusCompleted:
		return true
	}
	return false
}
