package core

import (
	"context"
	"fmt"

	"github.com/forgeml/chat-relay/internal/store"
)

// UserService resolves caller-supplied external identifiers to user
// records, creating them on first contact.
type UserService struct {
	dbStore Store
}

func NewUserService(db Store) *UserService {
	return &UserService{dbStore: db}
}

// ResolveOrCreate looks up the user by external id, creating the record if
// it does not exist. Email and name are backfilled independently when the
// stored field is null and a non-empty value is supplied; a field that is
// already set is never overwritten.
//
// There is no application-level locking here: concurrent first contacts
// for the same external id race, and the schema's uniqueness constraint on
// firebase_uid is what keeps one of them from creating a duplicate row.
func (s *UserService) ResolveOrCreate(ctx context.Context, firebaseUID, email, name string) (*store.User, error) {
	user, err := s.dbStore.GetUserByFirebaseUID(ctx, firebaseUID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", firebaseUID, err)
	}

	if user == nil {
		user, err = s.dbStore.CreateUser(ctx, firebaseUID, optional(email), optional(name))
		if err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", firebaseUID, err)
		}
		return user, nil
	}

	mergedEmail := coalesce(user.Email, email)
	mergedName := coalesce(user.Name, name)
	filledEmail := user.Email == nil && mergedEmail != nil
	filledName := user.Name == nil && mergedName != nil
	if !filledEmail && !filledName {
		return user, nil
	}

	user, err = s.dbStore.UpdateUserContact(ctx, user.ID, mergedEmail, mergedName)
	if err != nil {
		return nil, fmt.Errorf("failed to backfill contact for user %s: %w", firebaseUID, err)
	}
	return user, nil
}

// coalesce keeps the existing value if present, otherwise adopts a
// non-empty incoming one. First write wins, per field.
func coalesce(existing *string, incoming string) *string {
	if existing != nil {
		return existing
	}
	return optional(incoming)
}

// optional maps the empty string to NULL.
func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
