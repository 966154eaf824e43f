package article

import (
	"time"
)

// Status is the editorial state of an article.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusInReview  Status = "IN_REVIEW"
	StatusPublished Status = "PUBLISHED"
)

// Article is a unit of knowledge content. SpaceID and AuthorID are
// captured at creation. ContentVector is present only when embedding
// generation succeeded; it is recomputed from content on content edits
// and left untouched when recomputation fails.
type Article struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	SpaceID       string    `json:"spaceId"`
	AuthorID      string    `json:"authorId"`
	Tags          []string  `json:"tags"`
	Status        Status    `json:"status,omitempty"`
	ContentVector []float32 `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateInput carries the caller-supplied fields for a new article.
// The author is never part of the input; it comes from the caller
// identity so the payload cannot spoof it.
type CreateInput struct {
	Title   string
	Content string
	SpaceID string
	Tags    []string
	Status  Status
}

// UpdateInput carries a partial update. Nil fields are left untouched.
type UpdateInput struct {
	Title   *string
	Content *string
	Tags    *[]string
	Status  *Status
}

// UpdatePatch is the merged persistence patch for an update. A nil
// ContentVector means the stored vector must not be modified; it is set
// only when regeneration succeeded.
type UpdatePatch struct {
	Title         *string
	Content       *string
	Tags          *[]string
	Status        *Status
	ContentVector []float32
}

// SearchResult is a single semantic search hit. Score is the store's
// native similarity measure; higher means more relevant.
type SearchResult struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	SpaceID   string    `json:"spaceId"`
	AuthorID  string    `json:"authorId"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	Score     float64   `json:"score"`
}
