package domain

import "time"

type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      ChatRole  `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}
