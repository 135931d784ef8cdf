package models

// ChatMessage lives in a single flat append-only log. A conversation is the
// log filtered by the unordered (sender, receiver) pair, optionally narrowed
// to one related listing.
type ChatMessage struct {
	ID            string `json:"id"`
	Sender        string `json:"sender"`
	Receiver      string `json:"receiver"`
	Content       string `json:"content"`
	Timestamp     int64  `json:"timestamp"`
	RelatedItemID string `json:"relatedItemId,omitempty"`
}

// Between reports whether the message belongs to the conversation between
// a and b, in either direction.
func (m ChatMessage) Between(a, b string) bool {
	return (m.Sender == a && m.Receiver == b) || (m.Sender == b && m.Receiver == a)
}
