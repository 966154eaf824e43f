package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/prompt-general/knowledgehub/internal/ai"
	"github.com/prompt-general/knowledgehub/internal/article"
	"github.com/prompt-general/knowledgehub/internal/config"
	"github.com/prompt-general/knowledgehub/internal/space"
	"github.com/prompt-general/knowledgehub/internal/user"
)

// ArticleService is the article surface the gateway exposes.
type ArticleService interface {
	Create(ctx context.Context, in article.CreateInput, authorID string) (*article.Article, error)
	CreateFromFile(ctx context.Context, raw []byte, fileName, spaceID, authorID string, tags []string) (*article.Article, error)
	FindAll(ctx context.Context, spaceID string) ([]*article.Article, error)
	FindOne(ctx context.Context, id string) (*article.Article, error)
	Update(ctx context.Context, id string, in article.UpdateInput) (*article.Article, error)
	Remove(ctx context.Context, id string) (*article.Article, error)
	Search(ctx context.Context, query string, limit int) ([]article.SearchResult, error)
	GenerateContent(ctx context.Context, req ai.GenerationRequest) (*ai.GenerationResponse, error)
}

// SpaceService is the space surface the gateway exposes.
type SpaceService interface {
	Create(ctx context.Context, in space.CreateInput, authorID string) (*space.Space, error)
	FindAll(ctx context.Context) ([]*space.Space, error)
	FindOne(ctx context.Context, id string) (*space.Space, error)
	Update(ctx context.Context, id string, in space.UpdateInput) (*space.Space, error)
	Remove(ctx context.Context, id string) (*space.Space, error)
}

// UserService is the user surface the gateway exposes.
type UserService interface {
	Sync(ctx context.Context, in user.SyncInput) (*user.User, error)
}

// Gateway is the HTTP boundary: routing, identity extraction, request
// validation, and error-to-status mapping.
type Gateway struct {
	server       *http.Server
	router       *mux.Router
	handler      http.Handler
	articles     ArticleService
	spaces       SpaceService
	users        UserService
	health       http.Handler
	serverConfig config.ServerConfig
	uploadConfig config.UploadConfig
	validate     *validator.Validate
	log          *zap.Logger
}

// NewGateway creates the gateway and wires all routes.
func NewGateway(serverConfig config.ServerConfig, uploadConfig config.UploadConfig, articles ArticleService, spaces SpaceService, users UserService, health http.Handler, log *zap.Logger) *Gateway {
	validate := validator.New()
	// ids are document-store object ids, 24 hex chars
	_ = validate.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return primitive.IsValidObjectID(fl.Field().String())
	})

	g := &Gateway{
		router:       mux.NewRouter(),
		articles:     articles,
		spaces:       spaces,
		users:        users,
		health:       health,
		serverConfig: serverConfig,
		uploadConfig: uploadConfig,
		validate:     validate,
		log:          log,
	}

	g.setupRoutes()
	g.setupHandler()

	g.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port),
		Handler:      g.handler,
		ReadTimeout:  serverConfig.ReadTimeout,
		WriteTimeout: serverConfig.WriteTimeout,
		IdleTimeout:  serverConfig.IdleTimeout,
	}

	return g
}

func (g *Gateway) setupRoutes() {
	g.router.Use(g.requestID, g.requestLogger)

	// Public routes: health and the identity-provider sync endpoint that
	// bootstraps a user before it has an id to present.
	g.router.Handle("/health", g.health).Methods(http.MethodGet)
	g.router.HandleFunc("/users/sync", g.handleSyncUser).Methods(http.MethodPost)

	articles := g.router.PathPrefix("/articles").Subrouter()
	articles.Use(g.requireUser)
	articles.HandleFunc("/search", g.handleSearchArticles).Methods(http.MethodGet)
	articles.HandleFunc("/generate", g.handleGenerateContent).Methods(http.MethodPost)
	articles.HandleFunc("/upload", g.handleUploadArticle).Methods(http.MethodPost)
	articles.HandleFunc("", g.handleCreateArticle).Methods(http.MethodPost)
	articles.HandleFunc("", g.handleListArticles).Methods(http.MethodGet)
	articles.HandleFunc("/{id}", g.handleGetArticle).Methods(http.MethodGet)
	articles.HandleFunc("/{id}", g.handleUpdateArticle).Methods(http.MethodPatch)
	articles.HandleFunc("/{id}", g.handleDeleteArticle).Methods(http.MethodDelete)

	spaces := g.router.PathPrefix("/spaces").Subrouter()
	spaces.Use(g.requireUser)
	spaces.HandleFunc("", g.handleCreateSpace).Methods(http.MethodPost)
	spaces.HandleFunc("", g.handleListSpaces).Methods(http.MethodGet)
	spaces.HandleFunc("/{id}", g.handleGetSpace).Methods(http.MethodGet)
	spaces.HandleFunc("/{id}", g.handleUpdateSpace).Methods(http.MethodPatch)
	spaces.HandleFunc("/{id}", g.handleDeleteSpace).Methods(http.MethodDelete)
}

func (g *Gateway) setupHandler() {
	g.handler = g.router
	if g.serverConfig.EnableCORS {
		c := cors.New(cors.Options{
			AllowedOrigins:   g.serverConfig.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "x-user-id"},
			AllowCredentials: true,
		})
		g.handler = c.Handler(g.router)
	}
}

// Handler returns the fully wired HTTP handler.
func (g *Gateway) Handler() http.Handler {
	return g.handler
}

// Start starts the HTTP server.
func (g *Gateway) Start() error {
	g.log.Info("starting api gateway", zap.String("addr", g.server.Addr))
	return g.server.ListenAndServe()
}

// Stop gracefully shuts the server down.
func (g *Gateway) Stop(ctx context.Context) error {
	g.log.Info("stopping api gateway")
	return g.server.Shutdown(ctx)
}
