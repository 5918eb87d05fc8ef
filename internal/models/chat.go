package models

import "time"

// ChatRole identifies who produced a chat message.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
	ChatRoleNurse ChatRole = "nurse"
)

// ChatMessage is a durably persisted health-chat entry. Conversation turns
// are ephemeral in the client; a message lands here only when a nurse saves
// it explicitly or when an escalated turn writes its mandatory audit entry.
type ChatMessage struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId,omitempty"`
	Role        ChatRole  `json:"role"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
	IsEscalated bool      `json:"isEscalated,omitempty"`
	IsSaved     bool      `json:"isSaved,omitempty"`
}
