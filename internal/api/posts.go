package api

import (
	"net/http"

	"github.com/VitaminP8/postboard/models"
)

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type postResponse struct {
	Post    *models.Post `json:"post"`
	Message string       `json:"message"`
}

// GET /api/posts - лента: все посты с комментариями и ответами
func (h *handler) feed(w http.ResponseWriter, r *http.Request) {
	threads, err := h.threads.Feed(r.Context())
	if err != nil {
		handleServiceError(w, err, "Error fetching posts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": threads})
}

// GET /api/posts/{postId}
func (h *handler) getPost(w http.ResponseWriter, r *http.Request) {
	thread, err := h.threads.Post(r.Context(), idParam(r, "postId"))
	if err != nil {
		handleServiceError(w, err, "Error fetching post")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"post": thread})
}

// GET /api/my-posts
func (h *handler) listMyPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListMine(r.Context())
	if err != nil {
		handleServiceError(w, err, "Error fetching posts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// POST /api/my-posts
func (h *handler) createPost(w http.ResponseWriter, r *http.Request) {
	const op = "Error creating post"

	var req postRequest
	if !decode(w, r, &req, op) {
		return
	}

	post, err := h.posts.Create(r.Context(), req.Title, req.Content)
	if err != nil {
		handleServiceError(w, err, op)
		return
	}
	writeJSON(w, http.StatusCreated, postResponse{Post: post, Message: "Post created successfully"})
}

// PATCH /api/posts/{postId}
func (h *handler) updatePost(w http.ResponseWriter, r *http.Request) {
	const op = "Error updating post"

	var req postRequest
	if !decode(w, r, &req, op) {
		return
	}

	post, err := h.posts.Update(r.Context(), idParam(r, "postId"), req.Title, req.Content)
	if err != nil {
		handleServiceError(w, err, op)
		return
	}
	writeJSON(w, http.StatusOK, postResponse{Post: post, Message: "Post updated successfully"})
}

// DELETE /api/posts/{postId} - комментарии и ответы удаляются вместе с постом
func (h *handler) deletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Delete(r.Context(), idParam(r, "postId")); err != nil {
		handleServiceError(w, err, "Error deleting post")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted successfully"})
}
