package domain

import "time"

// Post is a forum article. MaxComments is the comment admission policy:
// nil = unlimited, 0 = comments disabled, N > 0 = admit while count < N.
type Post struct {
	ID           string
	AuthorID     string
	Author       string // author display name, joined on read
	Title        string
	Text         string
	MaxComments  *int
	CommentCount int
	CreatedAt    time.Time
}
