package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prompt-general/knowledgehub/internal/space"
)

// SpaceRepository persists spaces in the spaces collection.
type SpaceRepository struct {
	col *mongo.Collection
}

type spaceSettings struct {
	PrimaryColor string `bson:"primaryColor,omitempty"`
	Logo         string `bson:"logo,omitempty"`
}

type spaceDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	AuthorID    primitive.ObjectID `bson:"authorId"`
	Settings    *spaceSettings     `bson:"settings,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *spaceDocument) toSpace() *space.Space {
	sp := &space.Space{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		AuthorID:    d.AuthorID.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Settings != nil {
		sp.Settings = &space.Settings{
			PrimaryColor: d.Settings.PrimaryColor,
			Logo:         d.Settings.Logo,
		}
	}
	return sp
}

func toSettingsDocument(s *space.Settings) *spaceSettings {
	if s == nil {
		return nil
	}
	return &spaceSettings{PrimaryColor: s.PrimaryColor, Logo: s.Logo}
}

func (r *SpaceRepository) Insert(ctx context.Context, sp *space.Space) (*space.Space, error) {
	authorID, err := primitive.ObjectIDFromHex(sp.AuthorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := spaceDocument{
		Name:        sp.Name,
		Description: sp.Description,
		AuthorID:    authorID,
		Settings:    toSettingsDocument(sp.Settings),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = result.InsertedID.(primitive.ObjectID)
	return doc.toSpace(), nil
}

func (r *SpaceRepository) FindByID(ctx context.Context, id string) (*space.Space, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc spaceDocument
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toSpace(), nil
}

func (r *SpaceRepository) FindMany(ctx context.Context) ([]*space.Space, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []spaceDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	spaces := make([]*space.Space, 0, len(docs))
	for i := range docs {
		spaces = append(spaces, docs[i].toSpace())
	}
	return spaces, nil
}

func (r *SpaceRepository) UpdateByID(ctx context.Context, id string, in space.UpdateInput) (*space.Space, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Settings != nil {
		set["settings"] = toSettingsDocument(in.Settings)
	}

	var doc spaceDocument
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toSpace(), nil
}

func (r *SpaceRepository) DeleteByID(ctx context.Context, id string) (*space.Space, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc spaceDocument
	err = r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toSpace(), nil
}
