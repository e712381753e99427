package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/apperrors"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/config"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/llm"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/logger"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/repository/db"
	"github.com/pcrishikesh/ai-chatbot-backend/pkg/validation"
)

// DefaultTitle is used when a conversation starts without a message.
const DefaultTitle = "New Chat"

// titlePrefixRunes is how much of the first message becomes the title.
const titlePrefixRunes = 50

// AI turn outcomes reported alongside a successful send.
const (
	AIStatusSuccess = "success"
	AIStatusError   = "error"
)

// Service owns conversations and their ordered message logs.
type Service struct {
	db        db.Database
	gateway   llm.Gateway
	cfg       config.ChatConfig
	validator *validation.ChatRequestValidator
}

// NewService creates a new chat Service
func NewService(database db.Database, gateway llm.Gateway, cfg config.ChatConfig) *Service {
	return &Service{
		db:        database,
		gateway:   gateway,
		cfg:       cfg,
		validator: validation.NewChatRequestValidator(),
	}
}

// Pagination describes one page of a conversation listing.
type Pagination struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// SendResult is the outcome of SendUserMessage: the resolved conversation,
// its most recent messages in chronological order, the total message count,
// and how the AI turn went.
type SendResult struct {
	Conversation *db.Conversation
	Messages     []db.Message
	MessageCount int
	AIStatus     string
	AIError      string
}

// CreateConversation creates a conversation, optionally seeded with an
// initial message. With a message, the title is derived from its first 50
// characters; without one it falls back to the default placeholder.
func (s *Service) CreateConversation(ownerID, initialMessage, initialSender string) (*db.Conversation, error) {
	title := DefaultTitle
	content := ""

	if strings.TrimSpace(initialMessage) != "" {
		trimmed, err := s.validator.ValidateMessage(initialMessage)
		if err != nil {
			return nil, err
		}
		content = trimmed
		title = deriveTitle(trimmed)
	}

	conv, err := s.db.CreateConversation(ownerID, title)
	if err != nil {
		return nil, err
	}

	if content != "" {
		sender := initialSender
		if sender == "" {
			sender = db.RoleUser
		}
		if _, err := s.AppendMessage(conv.ID, ownerID, content, sender); err != nil {
			return nil, err
		}
	}

	return conv, nil
}

// CreateNamedConversation creates an empty conversation with an explicit
// title, defaulting when none is given. Backs the "new chat" endpoint.
func (s *Service) CreateNamedConversation(ownerID, title string) (*db.Conversation, error) {
	if strings.TrimSpace(title) == "" {
		return s.db.CreateConversation(ownerID, DefaultTitle)
	}

	trimmed, err := s.validator.ValidateTitle(title)
	if err != nil {
		return nil, err
	}
	return s.db.CreateConversation(ownerID, trimmed)
}

// checkID rejects ids that cannot exist before they reach storage. The id
// columns are UUIDs, so a malformed id would otherwise surface as a query
// error; to the caller it is indistinguishable from an absent conversation.
func checkID(conversationID string) error {
	if _, err := uuid.Parse(conversationID); err != nil {
		return apperrors.NotFound("conversation not found")
	}
	return nil
}

// AppendMessage appends one immutable message to a conversation the owner
// holds. The timestamp and sequence are assigned by storage, never by the
// client.
func (s *Service) AppendMessage(conversationID, ownerID, content, sender string) (*db.Message, error) {
	if sender != db.RoleUser && sender != db.RoleAssistant {
		return nil, apperrors.Validation("sender must be %q or %q", db.RoleUser, db.RoleAssistant)
	}

	if err := checkID(conversationID); err != nil {
		return nil, err
	}

	trimmed, err := s.validator.ValidateMessage(content)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.GetConversation(conversationID, ownerID); err != nil {
		return nil, err
	}

	return s.db.AddMessage(conversationID, sender, trimmed)
}

// SendUserMessage is the composite operation behind the chat surface: it
// resolves the target conversation, appends the user's message, obtains an
// assistant reply, and appends that reply even when generation fails, so a
// conversation never ends on a user turn.
func (s *Service) SendUserMessage(ctx context.Context, conversationID, ownerID, content string) (*SendResult, error) {
	trimmed, err := s.validator.ValidateMessage(content)
	if err != nil {
		return nil, err
	}

	conv, err := s.resolveConversation(conversationID, ownerID, trimmed)
	if err != nil {
		return nil, err
	}

	// History is captured before the append so it holds only prior turns.
	history, err := s.recentHistory(conv.ID)
	if err != nil {
		return nil, err
	}

	if _, err := s.db.AddMessage(conv.ID, db.RoleUser, trimmed); err != nil {
		return nil, err
	}

	result := s.gateway.Generate(ctx, trimmed, history)

	aiStatus := AIStatusSuccess
	aiError := ""
	if !result.Success {
		aiStatus = AIStatusError
		aiError = string(result.ErrorReason)
		logger.Log.WithFields(logrus.Fields{
			"conversation_id": conv.ID,
			"reason":          aiError,
		}).Warn("Generation failed, storing fallback reply")
	}

	// The assistant turn is appended regardless of generation outcome.
	if _, err := s.db.AddMessage(conv.ID, db.RoleAssistant, result.Content); err != nil {
		return nil, err
	}

	recent, err := s.db.GetRecentMessages(conv.ID, s.cfg.ReplyWindow)
	if err != nil {
		return nil, err
	}
	count, err := s.db.CountMessages(conv.ID)
	if err != nil {
		return nil, err
	}

	return &SendResult{
		Conversation: conv,
		Messages:     lo.Reverse(recent),
		MessageCount: count,
		AIStatus:     aiStatus,
		AIError:      aiError,
	}, nil
}

// ListConversations returns one page of the owner's active conversations,
// most recent activity first.
func (s *Service) ListConversations(ownerID string, page, pageSize int) ([]db.Conversation, *Pagination, error) {
	page, pageSize, err := s.validator.ValidatePage(page, pageSize, 20)
	if err != nil {
		return nil, nil, err
	}

	items, total, err := s.db.ListConversations(ownerID, db.Page{Number: page, Size: pageSize})
	if err != nil {
		return nil, nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize

	return items, &Pagination{
		Page:        page,
		PageSize:    pageSize,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && total > 0,
	}, nil
}

// GetConversation fetches an owned conversation and its most recent
// messages in chronological order.
func (s *Service) GetConversation(conversationID, ownerID string, messageLimit int) (*db.Conversation, []db.Message, error) {
	if messageLimit <= 0 {
		messageLimit = 50
	}
	if messageLimit > validation.MaxPageSize {
		messageLimit = validation.MaxPageSize
	}

	if err := checkID(conversationID); err != nil {
		return nil, nil, err
	}

	conv, err := s.db.GetConversation(conversationID, ownerID)
	if err != nil {
		return nil, nil, err
	}

	messages, err := s.db.GetRecentMessages(conversationID, messageLimit)
	if err != nil {
		return nil, nil, err
	}

	return conv, lo.Reverse(messages), nil
}

// SoftDelete marks a conversation inactive. The record persists but no
// longer appears in listings or direct fetches.
func (s *Service) SoftDelete(conversationID, ownerID string) (*db.Conversation, error) {
	if err := checkID(conversationID); err != nil {
		return nil, err
	}
	return s.db.SetConversationInactive(conversationID, ownerID)
}

// Rename updates a conversation's title.
func (s *Service) Rename(conversationID, ownerID, newTitle string) (*db.Conversation, error) {
	trimmed, err := s.validator.ValidateTitle(newTitle)
	if err != nil {
		return nil, err
	}
	if err := checkID(conversationID); err != nil {
		return nil, err
	}
	return s.db.UpdateConversationTitle(conversationID, ownerID, trimmed)
}

// resolveConversation picks the target for a send. A missing id starts a new
// conversation. A malformed id also starts one unless strict mode is on;
// the lenient path mirrors long-standing client behavior. A well-formed id
// must resolve to a conversation the owner holds.
func (s *Service) resolveConversation(conversationID, ownerID, firstMessage string) (*db.Conversation, error) {
	if conversationID == "" {
		return s.db.CreateConversation(ownerID, deriveTitle(firstMessage))
	}

	if _, err := uuid.Parse(conversationID); err != nil {
		if s.cfg.StrictConversationID {
			return nil, apperrors.Validation("chatId is not a valid conversation id")
		}
		logger.Log.WithField("chat_id", conversationID).Warn("Malformed conversation id, starting a new conversation")
		return s.db.CreateConversation(ownerID, deriveTitle(firstMessage))
	}

	return s.db.GetConversation(conversationID, ownerID)
}

// recentHistory returns the last turns of a conversation in chronological
// order, bounded by the configured window, as generation context.
func (s *Service) recentHistory(conversationID string) ([]llm.Message, error) {
	recent, err := s.db.GetRecentMessages(conversationID, s.cfg.HistoryWindow)
	if err != nil {
		return nil, err
	}

	return lo.Map(lo.Reverse(recent), func(m db.Message, _ int) llm.Message {
		return llm.Message{Role: m.Role, Content: m.Content}
	}), nil
}

// deriveTitle takes the first 50 characters of a message as the title,
// marking truncation with an ellipsis.
func deriveTitle(content string) string {
	runes := []rune(content)
	if len(runes) <= titlePrefixRunes {
		return content
	}
	return string(runes[:titlePrefixRunes]) + "..."
}
