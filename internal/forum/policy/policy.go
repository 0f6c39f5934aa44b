// Package policy holds the authorization decision functions for posts and
// comments. Every rule lives here exactly once; handlers and services consult
// these functions before any mutation and never re-derive the booleans
// themselves.
//
// All functions are pure: they take the derived principal (nil = anonymous)
// and the resource's authorization attributes, and perform no I/O. Admin
// privilege counts only when the session's second factor is verified; an
// admin stuck at stage "pending" is treated exactly like a plain user.
package policy

import "github.com/corkboard/corkboard/internal/forum/domain"

// CanCreatePost permits any authenticated identity; anonymous may not post.
func CanCreatePost(p *domain.Principal) bool {
	return p != nil
}

// CanDeletePost permits the post's author, or a verified admin.
func CanDeletePost(p *domain.Principal, post domain.Post) bool {
	if p == nil {
		return false
	}
	return p.ID == post.AuthorID || p.VerifiedAdmin()
}

// CanEditComment permits the comment's author, or a verified admin. An
// anonymous comment has no author id and can never match a principal, so only
// a verified admin may touch it.
func CanEditComment(p *domain.Principal, c domain.Comment) bool {
	if p == nil {
		return false
	}
	if c.AuthorID != nil && *c.AuthorID == p.ID {
		return true
	}
	return p.VerifiedAdmin()
}

// CanDeleteComment has the same shape as CanEditComment.
func CanDeleteComment(p *domain.Principal, c domain.Comment) bool {
	return CanEditComment(p, c)
}

// CanMarkInteresting permits any authenticated identity; admin and second
// factor are irrelevant.
func CanMarkInteresting(p *domain.Principal) bool {
	return p != nil
}

// CanComment is a resource-state check, not an identity check: anonymous
// commenting is allowed, but the post gates admission. False when comments
// are disabled (max = 0) or the limit is reached.
func CanComment(post domain.Post) bool {
	if post.MaxComments == nil {
		return true
	}
	return post.CommentCount < *post.MaxComments
}
