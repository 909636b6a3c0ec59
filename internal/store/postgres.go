// Package store implements the Postgres-backed persistence layer for
// users and their chat messages.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
)

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the managed datastore at endpointURL,
// authenticating with the service credential, and applies pending
// migrations before returning.
func NewPostgresStore(endpointURL, serviceKey string) (*PostgresStore, error) {
	dsn, err := buildDSN(endpointURL, serviceKey)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// buildDSN injects the service credential into the endpoint URL as the
// connection's userinfo. An existing username in the URL is preserved;
// otherwise the service role name is used.
func buildDSN(endpointURL, serviceKey string) (string, error) {
	u, err := url.Parse(endpointURL)
	if err != nil {
		return "", fmt.Errorf("invalid store URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return "", fmt.Errorf("invalid store URL: unsupported scheme %q", u.Scheme)
	}

	username := "service_role"
	if u.User != nil && u.User.Username() != "" {
		username = u.User.Username()
	}
	u.User = url.UserPassword(username, serviceKey)
	return u.String(), nil
}

// User methods

func (s *PostgresStore) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error) {
	var user User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, firebase_uid, email, name, created_at FROM users WHERE firebase_uid = $1`,
		firebaseUID,
	).Scan(&user.ID, &user.FirebaseUID, &user.Email, &user.Name, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, firebaseUID string, email, name *string) (*User, error) {
	user := User{
		ID:          uuid.NewString(),
		FirebaseUID: firebaseUID,
		Email:       email,
		Name:        name,
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (id, firebase_uid, email, name) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		user.ID, user.FirebaseUID, user.Email, user.Name,
	).Scan(&user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return &user, nil
}

// UpdateUserContact overwrites the email and name columns for the user and
// returns the refreshed record. Callers decide the merge policy; this
// method writes whatever it is given.
func (s *PostgresStore) UpdateUserContact(ctx context.Context, id string, email, name *string) (*User, error) {
	var user User
	err := s.db.QueryRowContext(ctx,
		`UPDATE users SET email = $2, name = $3 WHERE id = $1
		 RETURNING id, firebase_uid, email, name, created_at`,
		id, email, name,
	).Scan(&user.ID, &user.FirebaseUID, &user.Email, &user.Name, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user %s not found, contact not updated", id)
		}
		return nil, fmt.Errorf("failed to update user contact: %w", err)
	}
	return &user, nil
}

// Message methods

func (s *PostgresStore) CreateMessage(ctx context.Context, msg *Message) error {
	if msg.Role != RoleUser && msg.Role != RoleAssistant {
		return fmt.Errorf("invalid message role %q", msg.Role)
	}

	msg.ID = uuid.NewString() // Ensure ID is set

	metadata, err := marshalMetadata(msg.Metadata)
	if err != nil {
		return err
	}

	// created_at comes from the database clock so ordering matches the
	// store's own view of insertion time.
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO messages (id, user_id, role, content, metadata) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		msg.ID, msg.UserID, msg.Role, msg.Content, metadata,
	).Scan(&msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// GetRecentMessages returns the user's messages newest first. A limit of
// zero or less returns all of them.
func (s *PostgresStore) GetRecentMessages(ctx context.Context, userID string, limit int) ([]Message, error) {
	query := `SELECT id, user_id, role, content, metadata, created_at
	          FROM messages WHERE user_id = $1 ORDER BY created_at DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		var metadata []byte
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.Role, &msg.Content, &metadata, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &msg.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal message metadata: %w", err)
			}
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read message rows: %w", err)
	}
	return messages, nil
}

// DeleteMessagesByUserID removes every message for the user and reports
// how many rows went away. Deleting from an empty history is not an error.
func (s *PostgresStore) DeleteMessagesByUserID(ctx context.Context, userID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete messages: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted messages: %w", err)
	}
	return deleted, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return nil, nil // Stored as SQL NULL
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message metadata: %w", err)
	}
	return b, nil
}
