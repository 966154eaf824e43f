package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prompt-general/knowledgehub/internal/user"
)

// UserRepository persists users in the users collection.
type UserRepository struct {
	col *mongo.Collection
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	GithubID  string             `bson:"githubId"`
	Avatar    string             `bson:"avatar,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toUser() *user.User {
	return &user.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		GithubID:  d.GithubID,
		Avatar:    d.Avatar,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// Upsert inserts or updates the user record keyed by the identity
// provider id.
func (r *UserRepository) Upsert(ctx context.Context, in user.SyncInput) (*user.User, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":      in.Name,
			"email":     in.Email,
			"githubId":  in.GithubID,
			"avatar":    in.Avatar,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}

	var doc userDocument
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"githubId": in.GithubID},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc.toUser(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc userDocument
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toUser(), nil
}
