package domain

import "time"

// Comment belongs to a post. AuthorID is nil for anonymous comments, which
// therefore can never match any principal's identity.
type Comment struct {
	ID               string
	PostID           string
	AuthorID         *string
	Author           string // display name, empty for anonymous
	Text             string
	InterestingCount int
	Interesting      bool // whether the viewing user flagged it
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
