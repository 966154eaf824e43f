package article

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/prompt-general/knowledgehub/internal/ai"
	"github.com/prompt-general/knowledgehub/internal/apperr"
	"github.com/prompt-general/knowledgehub/internal/events"
)

// ServiceConfig tunes search behavior. Zero values fall back to the
// defaults used by the hosted vector index.
type ServiceConfig struct {
	DefaultSearchLimit  int
	CandidateMultiplier int
	MinCandidates       int
}

func (c *ServiceConfig) applyDefaults() {
	if c.DefaultSearchLimit <= 0 {
		c.DefaultSearchLimit = 10
	}
	if c.CandidateMultiplier <= 0 {
		c.CandidateMultiplier = 10
	}
	if c.MinCandidates <= 0 {
		c.MinCandidates = 100
	}
}

// Service orchestrates the article lifecycle: persistence coupled to
// best-effort embedding generation, semantic search, and content
// generation pass-through.
type Service struct {
	repo      Repository
	embedder  Embedder
	generator Generator
	bus       events.Publisher
	config    ServiceConfig
	log       *zap.Logger
}

func NewService(repo Repository, embedder Embedder, generator Generator, bus events.Publisher, config ServiceConfig, log *zap.Logger) *Service {
	config.applyDefaults()
	return &Service{
		repo:      repo,
		embedder:  embedder,
		generator: generator,
		bus:       bus,
		config:    config,
		log:       log,
	}
}

// Create persists a new article owned by authorID. The embedding is
// computed from the content before the write; if the provider is
// unavailable the article is stored without a vector. Creation succeeds
// whenever the store accepts the write, regardless of provider health.
func (s *Service) Create(ctx context.Context, in CreateInput, authorID string) (*Article, error) {
	vector := s.embedder.GenerateEmbedding(ctx, in.Content)
	if vector == nil {
		s.log.Warn("embedding unavailable; article will be stored without a vector",
			zap.String("title", in.Title))
	}

	status := in.Status
	if status == "" {
		status = StatusDraft
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	created, err := s.repo.Insert(ctx, &Article{
		Title:         in.Title,
		Content:       in.Content,
		SpaceID:       in.SpaceID,
		AuthorID:      authorID,
		Tags:          tags,
		Status:        status,
		ContentVector: vector,
	})
	if err != nil {
		return nil, apperr.Internal("failed to create article", err)
	}

	s.publish(ctx, events.TypeArticleCreated, created.ID, created)
	return created, nil
}

// CreateFromFile derives the title from the file name and delegates to
// Create. File mechanics (size, extension filtering) are the caller's
// concern.
func (s *Service) CreateFromFile(ctx context.Context, raw []byte, fileName, spaceID, authorID string, tags []string) (*Article, error) {
	title := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return s.Create(ctx, CreateInput{
		Title:   title,
		Content: string(raw),
		SpaceID: spaceID,
		Tags:    tags,
	}, authorID)
}

// FindAll lists articles, optionally filtered by space.
func (s *Service) FindAll(ctx context.Context, spaceID string) ([]*Article, error) {
	articles, err := s.repo.FindMany(ctx, spaceID)
	if err != nil {
		return nil, apperr.Internal("failed to list articles", err)
	}
	return articles, nil
}

func (s *Service) FindOne(ctx context.Context, id string) (*Article, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, apperr.InvalidArgumentf("invalid article id %q", id)
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load article", err)
	}
	if a == nil {
		return nil, apperr.NotFoundf("article %s not found", id)
	}
	return a, nil
}

// Update applies a partial update. When the content changes, the
// embedding is regenerated from the new content; if regeneration fails
// the vector field is omitted from the patch so the stored vector stays
// untouched. When the content is not part of the update the embedder is
// never called.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Article, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, apperr.InvalidArgumentf("invalid article id %q", id)
	}

	patch := UpdatePatch{
		Title:   in.Title,
		Content: in.Content,
		Tags:    in.Tags,
		Status:  in.Status,
	}

	if in.Content != nil {
		if vector := s.embedder.GenerateEmbedding(ctx, *in.Content); vector != nil {
			patch.ContentVector = vector
		} else {
			s.log.Warn("embedding regeneration unavailable; keeping stored vector",
				zap.String("article_id", id))
		}
	}

	updated, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return nil, apperr.Internal("failed to update article", err)
	}
	if updated == nil {
		return nil, apperr.NotFoundf("article %s not found", id)
	}

	s.publish(ctx, events.TypeArticleUpdated, updated.ID, updated)
	return updated, nil
}

func (s *Service) Remove(ctx context.Context, id string) (*Article, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, apperr.InvalidArgumentf("invalid article id %q", id)
	}
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to delete article", err)
	}
	if deleted == nil {
		return nil, apperr.NotFoundf("article %s not found", id)
	}

	s.publish(ctx, events.TypeArticleDeleted, deleted.ID, nil)
	return deleted, nil
}

// Search finds the articles semantically closest to query. Unlike the
// write path, an unavailable query embedding is a request failure: no
// vector, no search.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.InvalidArgument("search query must not be empty")
	}
	if limit <= 0 {
		limit = s.config.DefaultSearchLimit
	}

	queryVector := s.embedder.GenerateEmbedding(ctx, query)
	if queryVector == nil {
		return nil, apperr.InvalidArgument("search embedding could not be produced")
	}

	numCandidates := limit * s.config.CandidateMultiplier
	if numCandidates < s.config.MinCandidates {
		numCandidates = s.config.MinCandidates
	}

	results, err := s.repo.VectorSearch(ctx, queryVector, limit, numCandidates)
	if err != nil {
		return nil, apperr.SearchFailed("vector search failed", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}

	s.log.Info("search completed", zap.String("query", query), zap.Int("results", len(results)))
	return results, nil
}

// GenerateContent passes the request through to the generation provider.
// Provider failures propagate; silent failure would hide a broken
// feature from the user.
func (s *Service) GenerateContent(ctx context.Context, req ai.GenerationRequest) (*ai.GenerationResponse, error) {
	return s.generator.GenerateContent(ctx, req)
}

func (s *Service) publish(ctx context.Context, eventType, entityID string, payload any) {
	if err := s.bus.Publish(ctx, events.NewEvent(eventType, entityID, payload)); err != nil {
		s.log.Warn("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}
