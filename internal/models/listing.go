package models

// JSON field names across all listing types are fixed: persisted collections
// must round-trip through save/load without shape changes.

type PaymentMethod struct {
	Type    string `json:"type"`
	Details string `json:"details,omitempty"`
}

// ParkingSpot is a posted parking listing. Requester is set by the request
// flow; IsTaken is display state the core never flips.
type ParkingSpot struct {
	ID             string          `json:"id"`
	Owner          string          `json:"owner"`
	Address        string          `json:"address"`
	Region         string          `json:"region"`
	LocationLink   string          `json:"locationLink"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
	Whatsapp       string          `json:"whatsapp"`
	Description    string          `json:"description"`
	DurationHours  int             `json:"durationHours"`
	CreatedAt      int64           `json:"createdAt"`
	IsTaken        bool            `json:"isTaken"`
	Requester      string          `json:"requester,omitempty"`
}

// CarpoolRide is a pure listing: created once, never transitions.
type CarpoolRide struct {
	ID       string `json:"id"`
	Driver   string `json:"driver"`
	From     string `json:"from"`
	To       string `json:"to"`
	Time     string `json:"time"`
	Seats    int    `json:"seats"`
	Price    int    `json:"price"`
	Phone    string `json:"phone"`
	CarModel string `json:"carModel"`
}

// LostItem is a pure listing for the lost & found board.
type LostItem struct {
	ID          string `json:"id"`
	Reporter    string `json:"reporter"`
	Type        string `json:"type"` // lost or found
	ItemName    string `json:"itemName"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Contact     string `json:"contact"`
	Date        string `json:"date"`
}

// SosAlert is a roadside emergency. Only the original requester may resolve
// it; resolved is terminal.
type SosAlert struct {
	ID        string `json:"id"`
	Requester string `json:"requester"`
	IssueType string `json:"issueType"`
	Location  string `json:"location"`
	Phone     string `json:"phone"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}
