package user

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/prompt-general/knowledgehub/internal/apperr"
	"github.com/prompt-general/knowledgehub/internal/events"
)

// User is an account synced from the external identity provider.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	GithubID  string    `json:"githubId"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SyncInput carries the identity-provider profile to upsert.
type SyncInput struct {
	Name     string
	Email    string
	GithubID string
	Avatar   string
}

// Repository is the persistence boundary for users.
type Repository interface {
	Upsert(ctx context.Context, in SyncInput) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// Service syncs users from the external identity provider.
type Service struct {
	repo Repository
	bus  events.Publisher
	log  *zap.Logger
}

func NewService(repo Repository, bus events.Publisher, log *zap.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// Sync upserts a user record keyed by the identity provider id.
func (s *Service) Sync(ctx context.Context, in SyncInput) (*User, error) {
	u, err := s.repo.Upsert(ctx, in)
	if err != nil {
		return nil, apperr.Internal("failed to sync user", err)
	}

	if err := s.bus.Publish(ctx, events.NewEvent(events.TypeUserSynced, u.ID, u)); err != nil {
		s.log.Warn("failed to publish event", zap.String("user_id", u.ID), zap.Error(err))
	}
	return u, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, apperr.InvalidArgumentf("invalid user id %q", id)
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	if u == nil {
		return nil, apperr.NotFoundf("user %s not found", id)
	}
	return u, nil
}
