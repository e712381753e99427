package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/auth"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/repository/db"
	chatservice "github.com/pcrishikesh/ai-chatbot-backend/internal/service/chat"
)

type sendMessageRequest struct {
	Message string `json:"message"`
	ChatID  string `json:"chatId,omitempty"`
}

type sendMessageResponse struct {
	Success         bool          `json:"success"`
	ChatID          string        `json:"chatId"`
	Messages        []messageJSON `json:"messages"`
	MessageCount    int           `json:"messageCount"`
	AIServiceStatus string        `json:"aiServiceStatus"`
	AIError         string        `json:"aiError,omitempty"`
}

type historyResponse struct {
	Success    bool                    `json:"success"`
	Chats      []chatJSON              `json:"chats"`
	Pagination *chatservice.Pagination `json:"pagination"`
}

type conversationResponse struct {
	Success  bool          `json:"success"`
	Chat     chatJSON      `json:"chat"`
	Messages []messageJSON `json:"messages,omitempty"`
}

type newChatRequest struct {
	Title string `json:"title,omitempty"`
}

type renameRequest struct {
	Title string `json:"title"`
}

// ChatHandlers exposes the conversation surface.
type ChatHandlers struct {
	chat *chatservice.Service
}

// NewChatHandlers creates a new ChatHandlers
func NewChatHandlers(chat *chatservice.Service) *ChatHandlers {
	return &ChatHandlers{chat: chat}
}

// SendMessage appends the user's message to a conversation (creating one
// when needed) and returns the updated tail of the log, including the
// assistant's reply or its fallback.
func (h *ChatHandlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		sendErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.chat.SendUserMessage(r.Context(), req.ChatID, account.ID, req.Message)
	if err != nil {
		sendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		Success:         true,
		ChatID:          result.Conversation.ID,
		Messages:        lo.Map(result.Messages, func(m db.Message, _ int) messageJSON { return toMessageJSON(m) }),
		MessageCount:    result.MessageCount,
		AIServiceStatus: result.AIStatus,
		AIError:         result.AIError,
	})
}

// History lists the authenticated user's active conversations by recency.
func (h *ChatHandlers) History(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		sendErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	page := queryInt(r, "page", 0)
	limit := queryInt(r, "limit", 0)

	chats, pagination, err := h.chat.ListConversations(account.ID, page, limit)
	if err != nil {
		sendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, historyResponse{
		Success:    true,
		Chats:      lo.Map(chats, func(c db.Conversation, _ int) chatJSON { return toChatJSON(&c) }),
		Pagination: pagination,
	})
}

// GetConversation returns one owned conversation with its recent messages.
func (h *ChatHandlers) GetConversation(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		sendErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	chatID := r.PathValue("chatId")
	limit := queryInt(r, "limit", 0)

	conv, messages, err := h.chat.GetConversation(chatID, account.ID, limit)
	if err != nil {
		sendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conversationResponse{
		Success:  true,
		Chat:     toChatJSON(conv),
		Messages: lo.Map(messages, func(m db.Message, _ int) messageJSON { return toMessageJSON(m) }),
	})
}

// NewConversation creates an empty conversation, optionally titled.
func (h *ChatHandlers) NewConversation(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		sendErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req newChatRequest
	if r.Body != nil {
		// A missing or empty body means an untitled chat
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	conv, err := h.chat.CreateNamedConversation(account.ID, req.Title)
	if err != nil {
		sendError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, conversationResponse{
		Success: true,
		Chat:    toChatJSON(conv),
	})
}

// DeleteConversation soft-deletes one owned conversation.
func (h *ChatHandlers) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		sendErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	chatID := r.PathValue("chatId")

	conv, err := h.chat.SoftDelete(chatID, account.ID)
	if err != nil {
		sendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"chatId":  conv.ID,
	})
}

// RenameConversation updates one owned conversation's title.
func (h *ChatHandlers) RenameConversation(w http.ResponseWriter, r *http.Request) {
	account, ok := auth.UserFromContext(r.Context())
	if !ok {
		sendErrorStatus(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}

	chatID := r.PathValue("chatId")

	conv, err := h.chat.Rename(chatID, account.ID, req.Title)
	if err != nil {
		sendError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conversationResponse{
		Success: true,
		Chat:    toChatJSON(conv),
	})
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
