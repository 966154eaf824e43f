package store

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/prompt-general/knowledgehub/internal/config"
)

// Store owns the MongoDB client and hands out per-collection repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.Logger
}

// Open connects to MongoDB and verifies the connection with a ping.
func Open(ctx context.Context, cfg config.MongoConfig, log *zap.Logger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Info("connected to mongodb", zap.String("database", cfg.Database))

	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
		log:    log,
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Articles() *ArticleRepository {
	return &ArticleRepository{col: s.db.Collection("articles")}
}

func (s *Store) Spaces() *SpaceRepository {
	return &SpaceRepository{col: s.db.Collection("spaces")}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{col: s.db.Collection("users")}
}
