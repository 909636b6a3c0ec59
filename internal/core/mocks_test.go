package core

import (
	"context"

	"github.com/forgeml/chat-relay/internal/store"
)

// mockStore implements Store with overridable function fields.
type mockStore struct {
	getUserFn        func(ctx context.Context, firebaseUID string) (*store.User, error)
	createUserFn     func(ctx context.Context, firebaseUID string, email, name *string) (*store.User, error)
	updateContactFn  func(ctx context.Context, id string, email, name *string) (*store.User, error)
	createMessageFn  func(ctx context.Context, msg *store.Message) error
	recentMessagesFn func(ctx context.Context, userID string, limit int) ([]store.Message, error)
	deleteMessagesFn func(ctx context.Context, userID string) (int64, error)
}

func (m *mockStore) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*store.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, firebaseUID)
	}
	return nil, nil
}

func (m *mockStore) CreateUser(ctx context.Context, firebaseUID string, email, name *string) (*store.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, firebaseUID, email, name)
	}
	return &store.User{ID: "internal-" + firebaseUID, FirebaseUID: firebaseUID, Email: email, Name: name}, nil
}

func (m *mockStore) UpdateUserContact(ctx context.Context, id string, email, name *string) (*store.User, error) {
	if m.updateContactFn != nil {
		return m.updateContactFn(ctx, id, email, name)
	}
	return &store.User{ID: id, Email: email, Name: name}, nil
}

func (m *mockStore) CreateMessage(ctx context.Context, msg *store.Message) error {
	if m.createMessageFn != nil {
		return m.createMessageFn(ctx, msg)
	}
	return nil
}

func (m *mockStore) GetRecentMessages(ctx context.Context, userID string, limit int) ([]store.Message, error) {
	if m.recentMessagesFn != nil {
		return m.recentMessagesFn(ctx, userID, limit)
	}
	return nil, nil
}

func (m *mockStore) DeleteMessagesByUserID(ctx context.Context, userID string) (int64, error) {
	if m.deleteMessagesFn != nil {
		return m.deleteMessagesFn(ctx, userID)
	}
	return 0, nil
}

// mockCompleter implements Completer.
type mockCompleter struct {
	completeFn func(ctx context.Context, prompt string) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if m.completeFn != nil {
		return m.completeFn(ctx, prompt)
	}
	return "mock reply", nil
}

func strptr(s string) *string {
	return &s
}
