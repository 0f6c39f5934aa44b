package http

import (
	"encoding/json"
	"net/http"

	"github.com/corkboard/corkboard/internal/forum/service"
	"github.com/corkboard/corkboard/pkg/httpx"
)

// CommentsHandler serves a post's comments and their interesting flags.
type CommentsHandler struct {
	CommentService *service.CommentService
}

// HandleList handles GET /api/posts/{id}/comments.
func (h *CommentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	comments, err := h.CommentService.ListComments(r.Context(), r.PathValue("id"), principalFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCommentResponses(comments))
}

// HandleCreate handles POST /api/posts/{id}/comments.
func (h *CommentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	c, err := h.CommentService.AddComment(r.Context(), r.PathValue("id"), principalFrom(r.Context()), req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toCommentResponse(c))
}

// HandleEdit handles PUT /api/comments/{id}.
func (h *CommentsHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	if err := h.CommentService.EditComment(r.Context(), principalFrom(r.Context()), r.PathValue("id"), req.Text); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /api/comments/{id}.
func (h *CommentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.CommentService.DeleteComment(r.Context(), principalFrom(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMarkInteresting handles POST /api/comments/{id}/interesting.
func (h *CommentsHandler) HandleMarkInteresting(w http.ResponseWriter, r *http.Request) {
	if err := h.CommentService.MarkInteresting(r.Context(), principalFrom(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUnmarkInteresting handles DELETE /api/comments/{id}/interesting.
func (h *CommentsHandler) HandleUnmarkInteresting(w http.ResponseWriter, r *http.Request) {
	if err := h.CommentService.UnmarkInteresting(r.Context(), principalFrom(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
