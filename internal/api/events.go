package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/VitaminP8/postboard/internal/subscription"
)

// GET /api/posts/{postId}/events - изменения ветки поста как server-sent events
func (h *handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	postID := idParam(r, "postId")
	if _, err := h.posts.Get(r.Context(), postID); err != nil {
		handleServiceError(w, err, "Error subscribing to post")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	events, cancel := h.events.Subscribe(postID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-events:
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("could not encode %s event of post %d: %v", event.Type, postID, err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data); err != nil {
				return
			}
			flusher.Flush()

			// пост удален - больше событий по нему не будет
			if event.Type == subscription.PostDeleted {
				return
			}
		}
	}
}
