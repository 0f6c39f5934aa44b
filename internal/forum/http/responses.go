package http

import (
	"errors"
	"net/http"

	"github.com/corkboard/corkboard/internal/forum/domain"
	"github.com/corkboard/corkboard/internal/forum/service"
	"github.com/corkboard/corkboard/internal/forum/store"
	"github.com/corkboard/corkboard/pkg/httpx"
	"github.com/corkboard/corkboard/pkg/slogx"
)

// userResponse is the client-facing view of a principal. It exposes the
// session's effective privilege, not the raw user row.
type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	IsAdmin   bool   `json:"is_admin"`
	CanDoTOTP bool   `json:"canDoTotp"`
	IsTOTP    bool   `json:"isTotp"`
}

func toUserResponse(p domain.Principal) userResponse {
	return userResponse{
		ID:        p.ID,
		Username:  p.Username,
		Name:      p.Name,
		IsAdmin:   p.Admin,
		CanDoTOTP: p.CanDoSecondFactor,
		IsTOTP:    p.SecondFactorVerified(),
	}
}

type postResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	AuthorID      string `json:"author_id"`
	Author        string `json:"author"`
	Text          string `json:"text"`
	MaxComments   *int   `json:"max_comments"`
	Timestamp     string `json:"timestamp"`
	CommentsCount int    `json:"comments_count"`
}

func toPostResponse(p domain.Post) postResponse {
	return postResponse{
		ID:            p.ID,
		Title:         p.Title,
		AuthorID:      p.AuthorID,
		Author:        p.Author,
		Text:          p.Text,
		MaxComments:   p.MaxComments,
		Timestamp:     p.CreatedAt.Format(timestampFormat),
		CommentsCount: p.CommentCount,
	}
}

func toPostResponses(posts []domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

type commentResponse struct {
	ID               string  `json:"id"`
	PostID           string  `json:"post_id"`
	AuthorID         *string `json:"author_id"`
	Author           string  `json:"author"`
	Text             string  `json:"text"`
	Timestamp        string  `json:"timestamp"`
	Interesting      bool    `json:"interesting"`
	InterestingCount int     `json:"interesting_count"`
}

func toCommentResponse(c domain.Comment) commentResponse {
	return commentResponse{
		ID:               c.ID,
		PostID:           c.PostID,
		AuthorID:         c.AuthorID,
		Author:           c.Author,
		Text:             c.Text,
		Timestamp:        c.CreatedAt.Format(timestampFormat),
		Interesting:      c.Interesting,
		InterestingCount: c.InterestingCount,
	}
}

func toCommentResponses(comments []domain.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out
}

const timestampFormat = "2006-01-02T15:04:05Z07:00" // RFC 3339

// writeServiceError maps the service sentinel taxonomy onto HTTP statuses.
// Anything unmapped is a 500 with a generic body; the detail stays in logs.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrNotAuthenticated):
		httpx.WriteError(w, http.StatusUnauthorized, service.ErrNotAuthenticated.Error())
	case errors.Is(err, service.ErrInvalidSecondFactor):
		httpx.WriteError(w, http.StatusUnauthorized, service.ErrInvalidSecondFactor.Error())
	case errors.Is(err, service.ErrSecondFactorNotEnabled):
		httpx.WriteError(w, http.StatusBadRequest, service.ErrSecondFactorNotEnabled.Error())
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, service.ErrForbidden.Error())
	case errors.Is(err, service.ErrCommentsClosed):
		httpx.WriteError(w, http.StatusBadRequest, service.ErrCommentsClosed.Error())
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
	}
}
