package store

import "time"

// Message roles. The schema enforces the same set with a CHECK constraint.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type User struct {
	ID          string    `json:"id"` // UUID
	FirebaseUID string    `json:"firebase_uid"`
	Email       *string   `json:"email"` // Nullable
	Name        *string   `json:"name"`  // Nullable
	CreatedAt   time.Time `json:"created_at"`
}

type Message struct {
	ID        string         `json:"id"` // UUID
	UserID    string         `json:"user_id"`
	Role      string         `json:"role"` // "user" or "assistant"
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"` // Opaque, nullable
	CreatedAt time.Time      `json:"created_at"`
}
