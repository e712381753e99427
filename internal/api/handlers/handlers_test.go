package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/auth"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/config"
	chatservice "github.com/pcrishikesh/ai-chatbot-backend/internal/service/chat"
	userservice "github.com/pcrishikesh/ai-chatbot-backend/internal/service/user"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/testutil"
)

// testServer wires the real services against in-memory storage and a mock
// gateway, with the same routing patterns the server uses.
type testServer struct {
	mux     *http.ServeMux
	gateway *testutil.MockGateway
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	database := testutil.NewMemoryDB()
	gateway := &testutil.MockGateway{}
	issuer := auth.NewIssuer(config.AuthConfig{
		JWTSecret: []byte("0123456789abcdef0123456789abcdef"),
		TokenTTL:  time.Hour,
	})

	users := userservice.NewService(database)
	chat := chatservice.NewService(database, gateway, config.ChatConfig{HistoryWindow: 10, ReplyWindow: 20})

	authHandlers := NewAuthHandlers(users, issuer)
	chatHandlers := NewChatHandlers(chat)
	authRequired := auth.Middleware(issuer, users)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/signup", authHandlers.Signup)
	mux.HandleFunc("POST /auth/login", authHandlers.Login)
	mux.HandleFunc("POST /auth/logout", authRequired(authHandlers.Logout))
	mux.HandleFunc("GET /auth/profile", authRequired(authHandlers.Profile))
	mux.HandleFunc("POST /chat/message", authRequired(chatHandlers.SendMessage))
	mux.HandleFunc("GET /chat/history", authRequired(chatHandlers.History))
	mux.HandleFunc("POST /chat/new", authRequired(chatHandlers.NewConversation))
	mux.HandleFunc("GET /chat/{chatId}", authRequired(chatHandlers.GetConversation))
	mux.HandleFunc("DELETE /chat/{chatId}", authRequired(chatHandlers.DeleteConversation))
	mux.HandleFunc("PUT /chat/{chatId}/title", authRequired(chatHandlers.RenameConversation))

	return &testServer{mux: mux, gateway: gateway}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (s *testServer) signup(t *testing.T, name, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestSignupAndLogin(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)

	rec := server.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "password123",
	})
	req.Equal(http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	req.Equal(true, body["success"])
	userBody := body["user"].(map[string]any)
	req.Equal("ada@example.com", userBody["email"])
	req.NotContains(rec.Body.String(), "password")

	// Same email again, case-insensitively
	rec = server.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Ada Again", "email": "ADA@Example.com", "password": "password123",
	})
	req.Equal(http.StatusConflict, rec.Code)

	rec = server.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "password123",
	})
	req.Equal(http.StatusOK, rec.Code)
	req.NotEmpty(decodeBody(t, rec)["token"])

	rec = server.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	})
	req.Equal(http.StatusUnauthorized, rec.Code)
	wrongPassword := decodeBody(t, rec)["message"]

	rec = server.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "password123",
	})
	req.Equal(http.StatusUnauthorized, rec.Code)
	// No-such-account and wrong-password read identically
	req.Equal(wrongPassword, decodeBody(t, rec)["message"])
}

func TestSignup_InvalidPayloads(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"short password", map[string]string{"name": "Ada", "email": "a@example.com", "password": "short"}},
		{"bad email", map[string]string{"name": "Ada", "email": "nope", "password": "password123"}},
		{"short name", map[string]string{"name": "A", "email": "a@example.com", "password": "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := server.do(t, http.MethodPost, "/auth/signup", "", tt.payload)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Equal(t, false, decodeBody(t, rec)["success"])
		})
	}
}

func TestProfileAndLogout(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)
	token := server.signup(t, "Ada", "ada@example.com")

	rec := server.do(t, http.MethodGet, "/auth/profile", token, nil)
	req.Equal(http.StatusOK, rec.Code)
	userBody := decodeBody(t, rec)["user"].(map[string]any)
	req.Equal("Ada", userBody["name"])

	rec = server.do(t, http.MethodPost, "/auth/logout", token, nil)
	req.Equal(http.StatusOK, rec.Code)

	// Tokens are self-contained; logout does not revoke them
	rec = server.do(t, http.MethodGet, "/auth/profile", token, nil)
	req.Equal(http.StatusOK, rec.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	server := newTestServer(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/auth/profile"},
		{http.MethodPost, "/chat/message"},
		{http.MethodGet, "/chat/history"},
		{http.MethodPost, "/chat/new"},
		{http.MethodGet, "/chat/some-id"},
		{http.MethodDelete, "/chat/some-id"},
		{http.MethodPut, "/chat/some-id/title"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := server.do(t, rt.method, rt.path, "", nil)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	rec := server.do(t, http.MethodGet, "/auth/profile", "not.a.token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendMessage_Flow(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)
	token := server.signup(t, "Ada", "ada@example.com")

	rec := server.do(t, http.MethodPost, "/chat/message", token, map[string]string{
		"message": "Hello there",
	})
	req.Equal(http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	req.Equal(true, body["success"])
	req.Equal("success", body["aiServiceStatus"])
	req.Equal(float64(2), body["messageCount"])
	chatID := body["chatId"].(string)
	req.NotEmpty(chatID)

	messages := body["messages"].([]any)
	req.Len(messages, 2)
	first := messages[0].(map[string]any)
	second := messages[1].(map[string]any)
	req.Equal("user", first["role"])
	req.Equal("Hello there", first["content"])
	req.Equal("assistant", second["role"])

	// Follow-up into the same conversation
	rec = server.do(t, http.MethodPost, "/chat/message", token, map[string]string{
		"message": "And another thing", "chatId": chatID,
	})
	req.Equal(http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	req.Equal(chatID, body["chatId"])
	req.Equal(float64(4), body["messageCount"])
}

func TestSendMessage_EmptyMessage(t *testing.T) {
	server := newTestServer(t)
	token := server.signup(t, "Ada", "ada@example.com")

	rec := server.do(t, http.MethodPost, "/chat/message", token, map[string]string{"message": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory_Pagination(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)
	token := server.signup(t, "Ada", "ada@example.com")

	for i := 1; i <= 12; i++ {
		rec := server.do(t, http.MethodPost, "/chat/new", token, map[string]string{
			"title": fmt.Sprintf("chat %d", i),
		})
		req.Equal(http.StatusCreated, rec.Code)
	}

	rec := server.do(t, http.MethodGet, "/chat/history?page=2&limit=5", token, nil)
	req.Equal(http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	req.Len(body["chats"].([]any), 5)
	pagination := body["pagination"].(map[string]any)
	req.Equal(float64(2), pagination["page"])
	req.Equal(float64(12), pagination["totalItems"])
	req.Equal(float64(3), pagination["totalPages"])
	req.Equal(true, pagination["hasNextPage"])
	req.Equal(true, pagination["hasPrevPage"])

	rec = server.do(t, http.MethodGet, "/chat/history?limit=101", token, nil)
	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestConversationLifecycle(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)
	token := server.signup(t, "Ada", "ada@example.com")

	rec := server.do(t, http.MethodPost, "/chat/new", token, map[string]string{"title": "Planning"})
	req.Equal(http.StatusCreated, rec.Code)
	chatID := decodeBody(t, rec)["chat"].(map[string]any)["id"].(string)

	rec = server.do(t, http.MethodGet, "/chat/"+chatID, token, nil)
	req.Equal(http.StatusOK, rec.Code)
	req.Equal("Planning", decodeBody(t, rec)["chat"].(map[string]any)["title"])

	rec = server.do(t, http.MethodPut, "/chat/"+chatID+"/title", token, map[string]string{"title": "Q3 planning"})
	req.Equal(http.StatusOK, rec.Code)
	req.Equal("Q3 planning", decodeBody(t, rec)["chat"].(map[string]any)["title"])

	rec = server.do(t, http.MethodDelete, "/chat/"+chatID, token, nil)
	req.Equal(http.StatusOK, rec.Code)
	req.Equal(chatID, decodeBody(t, rec)["chatId"])

	// Deleted conversations are gone from direct fetches and listings
	rec = server.do(t, http.MethodGet, "/chat/"+chatID, token, nil)
	req.Equal(http.StatusNotFound, rec.Code)

	rec = server.do(t, http.MethodGet, "/chat/history", token, nil)
	req.Equal(http.StatusOK, rec.Code)
	req.Empty(decodeBody(t, rec)["chats"])
}

func TestConversation_MalformedID(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)
	token := server.signup(t, "Ada", "ada@example.com")

	// A path segment that cannot be a conversation id reads as not-found
	rec := server.do(t, http.MethodGet, "/chat/not-a-uuid", token, nil)
	req.Equal(http.StatusNotFound, rec.Code)

	rec = server.do(t, http.MethodDelete, "/chat/not-a-uuid", token, nil)
	req.Equal(http.StatusNotFound, rec.Code)

	rec = server.do(t, http.MethodPut, "/chat/not-a-uuid/title", token, map[string]string{"title": "renamed"})
	req.Equal(http.StatusNotFound, rec.Code)
}

func TestConversation_OwnershipIsolation(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)
	adaToken := server.signup(t, "Ada", "ada@example.com")
	bobToken := server.signup(t, "Bob", "bob@example.com")

	rec := server.do(t, http.MethodPost, "/chat/new", adaToken, map[string]string{"title": "private"})
	req.Equal(http.StatusCreated, rec.Code)
	chatID := decodeBody(t, rec)["chat"].(map[string]any)["id"].(string)

	// Another authenticated user gets not-found, never forbidden
	rec = server.do(t, http.MethodGet, "/chat/"+chatID, bobToken, nil)
	req.Equal(http.StatusNotFound, rec.Code)

	rec = server.do(t, http.MethodDelete, "/chat/"+chatID, bobToken, nil)
	req.Equal(http.StatusNotFound, rec.Code)

	rec = server.do(t, http.MethodPut, "/chat/"+chatID+"/title", bobToken, map[string]string{"title": "mine now"})
	req.Equal(http.StatusNotFound, rec.Code)

	rec = server.do(t, http.MethodGet, "/chat/history", bobToken, nil)
	req.Equal(http.StatusOK, rec.Code)
	req.Empty(decodeBody(t, rec)["chats"])
}
