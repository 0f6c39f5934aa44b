package http

import (
	"encoding/json"
	"net/http"

	"github.com/corkboard/corkboard/internal/forum/service"
	"github.com/corkboard/corkboard/pkg/httpx"
)

// PostsHandler serves the post collection.
type PostsHandler struct {
	PostService *service.PostService
}

// HandleList handles GET /api/posts.
func (h *PostsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.ListPosts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPostResponses(posts))
}

// HandleGet handles GET /api/posts/{id}.
func (h *PostsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPostResponse(post))
}

// HandleCreate handles POST /api/posts.
func (h *PostsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Text        string `json:"text"`
		MaxComments *int   `json:"max_comments"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	post, err := h.PostService.CreatePost(r.Context(), principalFrom(r.Context()), service.CreatePostInput{
		Title:       req.Title,
		Text:        req.Text,
		MaxComments: req.MaxComments,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toPostResponse(post))
}

// HandleDelete handles DELETE /api/posts/{id}.
func (h *PostsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.PostService.DeletePost(r.Context(), principalFrom(r.Context()), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
