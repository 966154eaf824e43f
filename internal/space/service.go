package space

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/prompt-general/knowledgehub/internal/apperr"
	"github.com/prompt-general/knowledgehub/internal/events"
)

// Repository is the persistence boundary for spaces. Lookup methods
// return (nil, nil) when no space matches.
type Repository interface {
	Insert(ctx context.Context, s *Space) (*Space, error)
	FindByID(ctx context.Context, id string) (*Space, error)
	FindMany(ctx context.Context) ([]*Space, error)
	UpdateByID(ctx context.Context, id string, in UpdateInput) (*Space, error)
	DeleteByID(ctx context.Context, id string) (*Space, error)
}

// ArticleRemover deletes all articles belonging to a space. Satisfied by
// the article repository.
type ArticleRemover interface {
	DeleteBySpace(ctx context.Context, spaceID string) (int64, error)
}

// Service implements space CRUD. Deleting a space cascades to its
// articles as two sequential deletes with no transaction; a crash in
// between leaves an empty space behind, which is accepted.
type Service struct {
	repo     Repository
	articles ArticleRemover
	bus      events.Publisher
	log      *zap.Logger
}

func NewService(repo Repository, articles ArticleRemover, bus events.Publisher, log *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		articles: articles,
		bus:      bus,
		log:      log,
	}
}

func (s *Service) Create(ctx context.Context, in CreateInput, authorID string) (*Space, error) {
	created, err := s.repo.Insert(ctx, &Space{
		Name:        in.Name,
		Description: in.Description,
		AuthorID:    authorID,
		Settings:    in.Settings,
	})
	if err != nil {
		return nil, apperr.Internal("failed to create space", err)
	}

	s.publish(ctx, events.TypeSpaceCreated, created.ID, created)
	return created, nil
}

func (s *Service) FindAll(ctx context.Context) ([]*Space, error) {
	spaces, err := s.repo.FindMany(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list spaces", err)
	}
	return spaces, nil
}

func (s *Service) FindOne(ctx context.Context, id string) (*Space, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, apperr.InvalidArgumentf("invalid space id %q", id)
	}
	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load space", err)
	}
	if sp == nil {
		return nil, apperr.NotFoundf("space %s not found", id)
	}
	return sp, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Space, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, apperr.InvalidArgumentf("invalid space id %q", id)
	}
	updated, err := s.repo.UpdateByID(ctx, id, in)
	if err != nil {
		return nil, apperr.Internal("failed to update space", err)
	}
	if updated == nil {
		return nil, apperr.NotFoundf("space %s not found", id)
	}
	return updated, nil
}

// Remove deletes the space's articles first, then the space itself.
func (s *Service) Remove(ctx context.Context, id string) (*Space, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, apperr.InvalidArgumentf("invalid space id %q", id)
	}

	sp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load space", err)
	}
	if sp == nil {
		return nil, apperr.NotFoundf("space %s not found", id)
	}

	removed, err := s.articles.DeleteBySpace(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to delete space articles", err)
	}
	s.log.Info("cascade deleted articles", zap.String("space_id", id), zap.Int64("count", removed))

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to delete space", err)
	}

	s.publish(ctx, events.TypeSpaceDeleted, id, nil)
	return deleted, nil
}

func (s *Service) publish(ctx context.Context, eventType, entityID string, payload any) {
	if err := s.bus.Publish(ctx, events.NewEvent(eventType, entityID, payload)); err != nil {
		s.log.Warn("failed to publish event",
			zap.String("event_type", eventType),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}
