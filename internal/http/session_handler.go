package http

import (
	"net/http"
	"strings"

	d "github.com/Abu-Issam/buyshea-connect/internal/domain"
)

type NotificationsResponse struct {
	Notifications []d.Notification `json:"notifications"`
	Dropped       int              `json:"dropped,omitempty"`
}

// GET /api/v1/notifications drains the visitor's pending notifications.
func GetNotifications(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, NotificationsResponse{
		Notifications: sess.Notifications.Drain(),
		Dropped:       sess.Notifications.Dropped(),
	})
}

type ChatRequestDTO struct {
	Content string `json:"content"`
}

type ChatResponse struct {
	Messages []d.ChatMessage `json:"messages"`
	Pending  bool            `json:"pending"`
}

// GET /api/v1/chat/messages
func GetChat(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, ChatResponse{
		Messages: sess.Chat.Messages(),
		Pending:  sess.Chat.Pending(),
	})
}

// POST /api/v1/chat/messages
func SendChat(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req ChatRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondError(w, http.StatusBadRequest, "empty_message", "message must not be blank")
		return
	}
	if _, sent := sess.Chat.Send(req.Content); !sent {
		respondError(w, http.StatusGone, "session_closed", "conversation is closed")
		return
	}
	respondJSON(w, http.StatusAccepted, ChatResponse{
		Messages: sess.Chat.Messages(),
		Pending:  sess.Chat.Pending(),
	})
}
