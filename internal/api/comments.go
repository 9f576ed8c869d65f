package api

import (
	"net/http"

	"github.com/VitaminP8/postboard/models"
)

type contentRequest struct {
	Content string `json:"content"`
}

type commentResponse struct {
	Comment *models.Comment `json:"comment"`
	Message string          `json:"message"`
}

func (h *handler) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.comments.ListForPost(r.Context(), idParam(r, "postId"))
	if err != nil {
		handleServiceError(w, err, "Error fetching comments")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"comments": comments})
}

func (h *handler) createComment(w http.ResponseWriter, r *http.Request) {
	const op = "Error creating comment"

	var req contentRequest
	if !decode(w, r, &req, op) {
		return
	}

	comment, err := h.comments.Create(r.Context(), idParam(r, "postId"), req.Content)
	if err != nil {
		handleServiceError(w, err, op)
		return
	}
	writeJSON(w, http.StatusCreated, commentResponse{Comment: comment, Message: "Comment created successfully"})
}

func (h *handler) updateComment(w http.ResponseWriter, r *http.Request) {
	const op = "Error updating comment"

	var req contentRequest
	if !decode(w, r, &req, op) {
		return
	}

	comment, err := h.comments.Update(r.Context(), idParam(r, "commentId"), req.Content)
	if err != nil {
		handleServiceError(w, err, op)
		return
	}
	writeJSON(w, http.StatusOK, commentResponse{Comment: comment, Message: "Comment updated successfully"})
}

func (h *handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.comments.Delete(r.Context(), idParam(r, "commentId")); err != nil {
		handleServiceError(w, err, "Error deleting comment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted successfully"})
}
