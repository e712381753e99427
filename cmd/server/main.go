package main

import (
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/pcrishikesh/ai-chatbot-backend/internal/api/handlers"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/auth"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/config"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/llm"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/logger"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/middleware"
	"github.com/pcrishikesh/ai-chatbot-backend/internal/repository/postgres"
	chatservice "github.com/pcrishikesh/ai-chatbot-backend/internal/service/chat"
	userservice "github.com/pcrishikesh/ai-chatbot-backend/internal/service/user"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug("No .env file found, using process environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}

	database, err := postgres.NewPostgresDB(cfg.Database)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close()

	issuer := auth.NewIssuer(cfg.Auth)
	gateway := llm.NewOpenRouterGateway(cfg.LLM)

	users := userservice.NewService(database)
	chat := chatservice.NewService(database, gateway, cfg.Chat)

	authHandlers := handlers.NewAuthHandlers(users, issuer)
	chatHandlers := handlers.NewChatHandlers(chat)

	authRequired := auth.Middleware(issuer, users)
	limiter := middleware.NewLimiterStore(cfg.Server.AuthRatePerMinute, cfg.Server.AuthRateBurst, 5*time.Minute)
	defer limiter.Stop()

	cors := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.CORS(cfg.Server.AllowedOrigin, next)
	}
	limited := func(next http.HandlerFunc) http.HandlerFunc {
		return middleware.RateLimit(limiter, next)
	}

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /auth/signup", cors(limited(authHandlers.Signup)))
	mux.HandleFunc("POST /auth/login", cors(limited(authHandlers.Login)))
	mux.HandleFunc("GET /health", cors(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))

	// Protected routes
	mux.HandleFunc("POST /auth/logout", cors(authRequired(authHandlers.Logout)))
	mux.HandleFunc("GET /auth/profile", cors(authRequired(authHandlers.Profile)))
	mux.HandleFunc("POST /chat/message", cors(authRequired(chatHandlers.SendMessage)))
	mux.HandleFunc("GET /chat/history", cors(authRequired(chatHandlers.History)))
	mux.HandleFunc("POST /chat/new", cors(authRequired(chatHandlers.NewConversation)))
	mux.HandleFunc("GET /chat/{chatId}", cors(authRequired(chatHandlers.GetConversation)))
	mux.HandleFunc("DELETE /chat/{chatId}", cors(authRequired(chatHandlers.DeleteConversation)))
	mux.HandleFunc("PUT /chat/{chatId}/title", cors(authRequired(chatHandlers.RenameConversation)))

	// CORS preflight for every route shape
	for _, pattern := range []string{
		"OPTIONS /auth/signup",
		"OPTIONS /auth/login",
		"OPTIONS /auth/logout",
		"OPTIONS /auth/profile",
		"OPTIONS /chat/message",
		"OPTIONS /chat/history",
		"OPTIONS /chat/new",
		"OPTIONS /chat/{chatId}",
		"OPTIONS /chat/{chatId}/title",
	} {
		mux.HandleFunc(pattern, cors(func(w http.ResponseWriter, r *http.Request) {}))
	}

	logger.Log.WithField("port", cfg.Server.Port).Info("Server starting")

	if err := http.ListenAndServe(":"+cfg.Server.Port, mux); err != nil {
		logger.Log.WithError(err).Fatal("Server failed")
	}
}
