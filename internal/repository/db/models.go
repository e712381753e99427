package db

import "time"

// Message roles. Role is a closed two-value set; anything else is rejected
// before it reaches storage.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// User represents a registered account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Conversation represents an owned, ordered message log. Messages are
// embedded by reference only; the log itself lives in the messages table.
type Conversation struct {
	ID            string
	UserID        string
	Title         string
	IsActive      bool
	LastMessageAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Message is an immutable entry in a conversation's log. Seq is assigned by
// storage at insert time and defines the append order.
type Message struct {
	ID             string
	ConversationID string
	Seq            int64
	Role           string
	Content        string
	CreatedAt      time.Time
}

// Page describes an offset/limit window over a list query.
type Page struct {
	Number int
	Size   int
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
