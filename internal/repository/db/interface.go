package db

// Database defines the interface for all persistence operations. Handlers
// and services depend on this interface so tests can swap in mocks.
//
// Ownership is enforced here: every conversation operation takes the owner's
// user id and treats "absent" and "owned by someone else" identically, so a
// caller can never learn whether a foreign conversation exists.
type Database interface {
	// Users
	CreateUser(name, email, passwordHash string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetUserByID(id string) (*User, error)

	// Conversations
	CreateConversation(userID, title string) (*Conversation, error)
	GetConversation(id, userID string) (*Conversation, error)
	ListConversations(userID string, page Page) ([]Conversation, int, error)
	SetConversationInactive(id, userID string) (*Conversation, error)
	UpdateConversationTitle(id, userID, title string) (*Conversation, error)

	// Messages
	AddMessage(conversationID, role, content string) (*Message, error)
	GetRecentMessages(conversationID string, limit int) ([]Message, error)
	CountMessages(conversationID string) (int, error)

	Close() error
}
