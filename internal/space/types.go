package space

import "time"

// Settings holds optional per-space presentation settings.
type Settings struct {
	PrimaryColor string `json:"primaryColor,omitempty"`
	Logo         string `json:"logo,omitempty"`
}

// Space is a named container for articles.
type Space struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	AuthorID    string    `json:"authorId"`
	Settings    *Settings `json:"settings,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateInput carries the caller-supplied fields for a new space.
type CreateInput struct {
	Name        string
	Description string
	Settings    *Settings
}

// UpdateInput carries a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Name        *string
	Description *string
	Settings    *Settings
}
