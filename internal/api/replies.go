package api

import (
	"net/http"

	"github.com/VitaminP8/postboard/models"
)

type replyResponse struct {
	Reply   *models.Reply `json:"reply"`
	Message string        `json:"message"`
}

func (h *handler) listReplies(w http.ResponseWriter, r *http.Request) {
	replies, err := h.replies.ListForComment(r.Context(), idParam(r, "commentId"))
	if err != nil {
		handleServiceError(w, err, "Error fetching replies")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"replies": replies})
}

func (h *handler) createReply(w http.ResponseWriter, r *http.Request) {
	const op = "Error creating reply"

	var req contentRequest
	if !decode(w, r, &req, op) {
		return
	}

	reply, err := h.replies.Create(r.Context(), idParam(r, "commentId"), req.Content)
	if err != nil {
		handleServiceError(w, err, op)
		return
	}
	writeJSON(w, http.StatusCreated, replyResponse{Reply: reply, Message: "Reply created successfully"})
}

// updateReply обслуживает и /api/replies/{replyId}, и вложенный путь под комментарием
func (h *handler) updateReply(w http.ResponseWriter, r *http.Request) {
	const op = "Error updating reply"

	var req contentRequest
	if !decode(w, r, &req, op) {
		return
	}

	reply, err := h.replies.Update(r.Context(), idParam(r, "replyId"), req.Content)
	if err != nil {
		handleServiceError(w, err, op)
		return
	}
	writeJSON(w, http.StatusOK, replyResponse{Reply: reply, Message: "Reply updated successfully"})
}

func (h *handler) deleteReply(w http.ResponseWriter, r *http.Request) {
	if err := h.replies.Delete(r.Context(), idParam(r, "replyId")); err != nil {
		handleServiceError(w, err, "Error deleting reply")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reply deleted successfully"})
}
