package core

import (
	"context"
	"fmt"
	"time"

	"github.com/forgeml/chat-relay/internal/metrics"
	"github.com/forgeml/chat-relay/internal/store"
)

// ChatService orchestrates a chat turn: resolve the user, load prior
// history, ask the model, persist both sides of the exchange. There is no
// transaction around the sequence; a failure mid-turn leaves earlier
// writes in place and later ones unwritten.
type ChatService struct {
	dbStore      Store
	userService  *UserService
	llmService   Completer
	collector    metrics.Recorder
	historyLimit int // messages of context per turn; 0 means all of them
}

func NewChatService(db Store, users *UserService, llm Completer, collector metrics.Recorder, historyLimit int) *ChatService {
	return &ChatService{
		dbStore:      db,
		userService:  users,
		llmService:   llm,
		collector:    collector,
		historyLimit: historyLimit,
	}
}

// ChatTurn runs one full exchange and returns the assistant's reply.
// The completion happens before either message is persisted, so a failed
// model call stores nothing; a failed write after a successful completion
// loses the reply.
func (s *ChatService) ChatTurn(ctx context.Context, firebaseUID, message, userName, userEmail string, metadata map[string]any) (string, error) {
	user, err := s.userService.ResolveOrCreate(ctx, firebaseUID, userEmail, userName)
	if err != nil {
		s.collector.RecordChatTurn(metrics.OutcomeStoreError)
		return "", err
	}

	history, err := s.history(ctx, user.ID, s.historyLimit)
	if err != nil {
		s.collector.RecordChatTurn(metrics.OutcomeStoreError)
		return "", err
	}

	prompt := ComposePrompt(message, history, userName)

	start := time.Now()
	reply, err := s.llmService.Complete(ctx, prompt)
	s.collector.RecordCompletionLatency(time.Since(start))
	if err != nil {
		s.collector.RecordChatTurn(metrics.OutcomeCompletionError)
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}

	userMsg := store.Message{
		UserID:   user.ID,
		Role:     store.RoleUser,
		Content:  message,
		Metadata: metadata,
	}
	if err := s.dbStore.CreateMessage(ctx, &userMsg); err != nil {
		s.collector.RecordChatTurn(metrics.OutcomeStoreError)
		return "", fmt.Errorf("failed to store user message: %w", err)
	}

	assistantMsg := store.Message{
		UserID:  user.ID,
		Role:    store.RoleAssistant,
		Content: reply,
	}
	if err := s.dbStore.CreateMessage(ctx, &assistantMsg); err != nil {
		s.collector.RecordChatTurn(metrics.OutcomeStoreError)
		return "", fmt.Errorf("failed to store assistant message: %w", err)
	}

	s.collector.RecordChatTurn(metrics.OutcomeOK)
	return reply, nil
}

// History returns the user's full conversation, oldest first. Unknown
// external ids get a fresh profile and an empty history rather than an
// error.
func (s *ChatService) History(ctx context.Context, firebaseUID string) ([]store.Message, error) {
	user, err := s.userService.ResolveOrCreate(ctx, firebaseUID, "", "")
	if err != nil {
		return nil, err
	}
	return s.history(ctx, user.ID, 0)
}

// ClearHistory deletes every stored message for the user and returns how
// many were removed. Clearing an empty history succeeds with zero.
func (s *ChatService) ClearHistory(ctx context.Context, firebaseUID string) (int64, error) {
	user, err := s.userService.ResolveOrCreate(ctx, firebaseUID, "", "")
	if err != nil {
		return 0, err
	}
	deleted, err := s.dbStore.DeleteMessagesByUserID(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return deleted, nil
}

// history fetches messages newest first (optionally capped, so a limit
// keeps the most recent entries) and reverses them into chronological
// order.
func (s *ChatService) history(ctx context.Context, userID string, limit int) ([]store.Message, error) {
	messages, err := s.dbStore.GetRecentMessages(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
