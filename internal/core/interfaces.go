package core

import (
	"context"

	"github.com/forgeml/chat-relay/internal/store"
)

// Store is the persistence surface the services need. *store.PostgresStore
// satisfies it; tests substitute mocks.
type Store interface {
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*store.User, error)
	CreateUser(ctx context.Context, firebaseUID string, email, name *string) (*store.User, error)
	UpdateUserContact(ctx context.Context, id string, email, name *string) (*store.User, error)
	CreateMessage(ctx context.Context, msg *store.Message) error
	GetRecentMessages(ctx context.Context, userID string, limit int) ([]store.Message, error)
	DeleteMessagesByUserID(ctx context.Context, userID string) (int64, error)
}

// Completer produces one model reply for one prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
