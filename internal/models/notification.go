package models

// Notification is a fan-out event recorded for one recipient as a side
// effect of a state transition. Delivery is pull-based: a user's inbox is
// the global log filtered by ToUser.
type Notification struct {
	ID        string `json:"id"`
	ToUser    string `json:"toUser"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	Timestamp int64  `json:"timestamp"`
	Type      string `json:"type"`
}
