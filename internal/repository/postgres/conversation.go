package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/apperrors"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/logger"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/repository/db"
)

// CreateConversation creates a new active conversation for a user.
func (p *PostgresDB) CreateConversation(userID, title string) (*db.Conversation, error) {
	conv := &db.Conversation{
		ID:       uuid.New().String(),
		UserID:   userID,
		Title:    title,
		IsActive: true,
	}

	query := `
	INSERT INTO conversations (id, user_id, title)
	VALUES ($1, $2, $3)
	RETURNING last_message_at, created_at, updated_at
	`

	err := p.conn.QueryRow(query, conv.ID, userID, title).Scan(&conv.LastMessageAt, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating conversation: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{"conversation_id": conv.ID, "user_id": userID}).Info("Created new conversation")

	return conv, nil
}

// GetConversation retrieves an active conversation owned by userID. Absent
// and foreign conversations are both reported as not found.
func (p *PostgresDB) GetConversation(id, userID string) (*db.Conversation, error) {
	var conv db.Conversation
	query := `
	SELECT id, user_id, title, is_active, last_message_at, created_at, updated_at
	FROM conversations
	WHERE id = $1 AND user_id = $2 AND is_active = TRUE
	`

	err := p.conn.QueryRow(query, id, userID).Scan(
		&conv.ID, &conv.UserID, &conv.Title, &conv.IsActive, &conv.LastMessageAt, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("conversation not found")
		}
		return nil, fmt.Errorf("error retrieving conversation: %w", err)
	}

	return &conv, nil
}

// ListConversations returns one page of the user's active conversations,
// most recent activity first, insertion order breaking ties, along with the
// total number of active conversations.
func (p *PostgresDB) ListConversations(userID string, page db.Page) ([]db.Conversation, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM conversations WHERE user_id = $1 AND is_active = TRUE`
	if err := p.conn.QueryRow(countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting conversations: %w", err)
	}

	query := `
	SELECT id, user_id, title, is_active, last_message_at, created_at, updated_at
	FROM conversations
	WHERE user_id = $1 AND is_active = TRUE
	ORDER BY last_message_at DESC, seq ASC
	LIMIT $2 OFFSET $3
	`

	rows, err := p.conn.Query(query, userID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	var conversations []db.Conversation
	for rows.Next() {
		var conv db.Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.IsActive, &conv.LastMessageAt, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("error scanning conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating conversations: %w", err)
	}

	return conversations, total, nil
}

// SetConversationInactive flips the soft-delete flag. The row persists; it
// simply stops being listable or fetchable by the owner.
func (p *PostgresDB) SetConversationInactive(id, userID string) (*db.Conversation, error) {
	var conv db.Conversation
	query := `
	UPDATE conversations
	SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
	WHERE id = $1 AND user_id = $2
	RETURNING id, user_id, title, is_active, last_message_at, created_at, updated_at
	`

	err := p.conn.QueryRow(query, id, userID).Scan(
		&conv.ID, &conv.UserID, &conv.Title, &conv.IsActive, &conv.LastMessageAt, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("conversation not found")
		}
		return nil, fmt.Errorf("error deleting conversation: %w", err)
	}

	logger.Log.WithField("conversation_id", id).Info("Soft-deleted conversation")
	return &conv, nil
}

// UpdateConversationTitle renames an active conversation owned by userID.
func (p *PostgresDB) UpdateConversationTitle(id, userID, title string) (*db.Conversation, error) {
	var conv db.Conversation
	query := `
	UPDATE conversations
	SET title = $3, updated_at = CURRENT_TIMESTAMP
	WHERE id = $1 AND user_id = $2 AND is_active = TRUE
	RETURNING id, user_id, title, is_active, last_message_at, created_at, updated_at
	`

	err := p.conn.QueryRow(query, id, userID, title).Scan(
		&conv.ID, &conv.UserID, &conv.Title, &conv.IsActive, &conv.LastMessageAt, &conv.CreatedAt, &conv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("conversation not found")
		}
		return nil, fmt.Errorf("error renaming conversation: %w", err)
	}

	return &conv, nil
}

// AddMessage appends a message to a conversation's log and moves the
// conversation's last-activity timestamp to the new message's timestamp.
// Both writes commit together: a stored message whose conversation still
// reports older activity would break recency ordering.
func (p *PostgresDB) AddMessage(conversationID, role, content string) (*db.Message, error) {
	msg := &db.Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}

	tx, err := p.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO messages (id, conversation_id, role, content)
	VALUES ($1, $2, $3, $4)
	RETURNING seq, created_at
	`

	if err := tx.QueryRow(query, msg.ID, conversationID, role, content).Scan(&msg.Seq, &msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("error adding message: %w", err)
	}

	// Last activity tracks the appended message's own timestamp
	updateQuery := `
	UPDATE conversations
	SET last_message_at = $2, updated_at = CURRENT_TIMESTAMP
	WHERE id = $1
	`
	if _, err := tx.Exec(updateQuery, conversationID, msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("error updating conversation activity timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing message append: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"role":            role,
		"seq":             msg.Seq,
	}).Debug("Added message to conversation")

	return msg, nil
}

// GetRecentMessages retrieves the most recent messages of a conversation in
// reverse append order (newest first). Callers wanting chronological order
// reverse the slice.
func (p *PostgresDB) GetRecentMessages(conversationID string, limit int) ([]db.Message, error) {
	query := `
	SELECT id, conversation_id, seq, role, content, created_at
	FROM messages
	WHERE conversation_id = $1
	ORDER BY seq DESC
	LIMIT $2
	`

	rows, err := p.conn.Query(query, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	var messages []db.Message
	for rows.Next() {
		var msg db.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Seq, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// CountMessages returns the total number of messages in a conversation.
func (p *PostgresDB) CountMessages(conversationID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM messages WHERE conversation_id = $1`
	if err := p.conn.QueryRow(query, conversationID).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting messages: %w", err)
	}
	return count, nil
}
