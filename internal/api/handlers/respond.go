package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/apperrors"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/logger"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/repository/db"
)

// errorResponse is the uniform failure envelope.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// userJSON is the wire shape of an identity. The credential hash never
// leaves the server.
type userJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type chatJSON struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type messageJSON struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func toUserJSON(u *db.User) userJSON {
	return userJSON{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toChatJSON(c *db.Conversation) chatJSON {
	return chatJSON{
		ID:            c.ID,
		Title:         c.Title,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func toMessageJSON(m db.Message) messageJSON {
	return messageJSON{ID: m.ID, Role: m.Role, Content: m.Content, Timestamp: m.CreatedAt}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// sendError maps a taxonomy code to its HTTP status and writes the safe
// message. Anything unclassified is a 500 with no internal detail.
func sendError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.CodeOf(err) {
	case apperrors.CodeValidation:
		status = http.StatusBadRequest
	case apperrors.CodeDuplicate:
		status = http.StatusConflict
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeAuth:
		status = http.StatusUnauthorized
	case apperrors.CodeUpstream:
		status = http.StatusBadGateway
	case apperrors.CodeInternal:
		status = http.StatusInternalServerError
	}

	if status == http.StatusInternalServerError {
		logger.Log.WithError(err).Error("Request failed")
	}

	writeJSON(w, status, errorResponse{Success: false, Message: apperrors.MessageOf(err)})
}

func sendErrorStatus(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Message: message})
}
