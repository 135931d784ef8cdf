package models

// AppLink is a suggested-app entry shown by the collaborator. Four
// placeholders are seeded the first time the collection is persisted.
type AppLink struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// Advertisement is an admin-managed marquee entry.
type Advertisement struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail,omitempty"`
}
