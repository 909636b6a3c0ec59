package core

import (
	"context"
	"testing"

	"github.com/forgeml/chat-relay/internal/store"
)

// A first contact with an unknown external id creates exactly one user
// record carrying the supplied fields.
func TestUserService_ResolveOrCreate_CreatesOnFirstContact(t *testing.T) {
	createCalls := 0
	db := &mockStore{
		createUserFn: func(ctx context.Context, firebaseUID string, email, name *string) (*store.User, error) {
			createCalls++
			if firebaseUID != "u1" {
				t.Errorf("firebaseUID = %q, want %q", firebaseUID, "u1")
			}
			if email == nil || *email != "alice@example.com" {
				t.Errorf("email = %v, want alice@example.com", email)
			}
			if name == nil || *name != "Alice" {
				t.Errorf("name = %v, want Alice", name)
			}
			return &store.User{ID: "id-1", FirebaseUID: firebaseUID, Email: email, Name: name}, nil
		},
	}

	svc := NewUserService(db)
	user, err := svc.ResolveOrCreate(context.Background(), "u1", "alice@example.com", "Alice")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if createCalls != 1 {
		t.Errorf("CreateUser called %d times, want 1", createCalls)
	}
	if user.FirebaseUID != "u1" {
		t.Errorf("FirebaseUID = %q, want %q", user.FirebaseUID, "u1")
	}
}

// Absent fields are stored as NULL, not empty strings.
func TestUserService_ResolveOrCreate_EmptyFieldsStoredAsNull(t *testing.T) {
	db := &mockStore{
		createUserFn: func(ctx context.Context, firebaseUID string, email, name *string) (*store.User, error) {
			if email != nil {
				t.Errorf("email = %q, want nil", *email)
			}
			if name != nil {
				t.Errorf("name = %q, want nil", *name)
			}
			return &store.User{ID: "id-1", FirebaseUID: firebaseUID}, nil
		},
	}

	svc := NewUserService(db)
	if _, err := svc.ResolveOrCreate(context.Background(), "u1", "", ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

// A null email is backfilled; a set name stays untouched in the same call.
func TestUserService_ResolveOrCreate_BackfillsOnlyNullFields(t *testing.T) {
	existing := &store.User{ID: "id-1", FirebaseUID: "u1", Email: nil, Name: strptr("Alice")}
	db := &mockStore{
		getUserFn: func(ctx context.Context, firebaseUID string) (*store.User, error) {
			return existing, nil
		},
		updateContactFn: func(ctx context.Context, id string, email, name *string) (*store.User, error) {
			if id != "id-1" {
				t.Errorf("id = %q, want id-1", id)
			}
			if email == nil || *email != "alice@example.com" {
				t.Errorf("email = %v, want alice@example.com", email)
			}
			if name == nil || *name != "Alice" {
				t.Errorf("name = %v, want the existing Alice", name)
			}
			return &store.User{ID: id, FirebaseUID: "u1", Email: email, Name: name}, nil
		},
	}

	svc := NewUserService(db)
	user, err := svc.ResolveOrCreate(context.Background(), "u1", "alice@example.com", "Mallory")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Name == nil || *user.Name != "Alice" {
		t.Errorf("Name = %v, want Alice (never overwritten)", user.Name)
	}
}

// Once both fields are set, further calls with different values change
// nothing and issue no update.
func TestUserService_ResolveOrCreate_NeverOverwrites(t *testing.T) {
	existing := &store.User{ID: "id-1", FirebaseUID: "u1", Email: strptr("alice@example.com"), Name: strptr("Alice")}
	db := &mockStore{
		getUserFn: func(ctx context.Context, firebaseUID string) (*store.User, error) {
			return existing, nil
		},
		updateContactFn: func(ctx context.Context, id string, email, name *string) (*store.User, error) {
			t.Fatal("UpdateUserContact must not be called when nothing changed")
			return nil, nil
		},
	}

	svc := NewUserService(db)
	user, err := svc.ResolveOrCreate(context.Background(), "u1", "other@example.com", "Bob")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if *user.Email != "alice@example.com" || *user.Name != "Alice" {
		t.Errorf("user = %v/%v, want existing values preserved", *user.Email, *user.Name)
	}
}

// Supplying nothing for a null field issues no update either.
func TestUserService_ResolveOrCreate_NoUpdateWithoutNewValues(t *testing.T) {
	existing := &store.User{ID: "id-1", FirebaseUID: "u1"}
	db := &mockStore{
		getUserFn: func(ctx context.Context, firebaseUID string) (*store.User, error) {
			return existing, nil
		},
		updateContactFn: func(ctx context.Context, id string, email, name *string) (*store.User, error) {
			t.Fatal("UpdateUserContact must not be called")
			return nil, nil
		},
	}

	svc := NewUserService(db)
	if _, err := svc.ResolveOrCreate(context.Background(), "u1", "", ""); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestCoalesce(t *testing.T) {
	if got := coalesce(strptr("set"), "incoming"); got == nil || *got != "set" {
		t.Errorf("coalesce(set, incoming) = %v, want set", got)
	}
	if got := coalesce(nil, "incoming"); got == nil || *got != "incoming" {
		t.Errorf("coalesce(nil, incoming) = %v, want incoming", got)
	}
	if got := coalesce(nil, ""); got != nil {
		t.Errorf("coalesce(nil, empty) = %v, want nil", got)
	}
}
