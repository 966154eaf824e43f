package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/prompt-general/knowledgehub/internal/article"
)

// Name of the Atlas vector index on the articles collection.
const vectorIndexName = "vector_index"

// ArticleRepository persists articles in the articles collection.
type ArticleRepository struct {
	col *mongo.Collection
}

type articleDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Content       string             `bson:"content"`
	SpaceID       string             `bson:"spaceId"`
	AuthorID      primitive.ObjectID `bson:"authorId"`
	Tags          []string           `bson:"tags"`
	Status        string             `bson:"status,omitempty"`
	ContentVector []float32          `bson:"content_vector,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d *articleDocument) toArticle() *article.Article {
	return &article.Article{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Content:       d.Content,
		SpaceID:       d.SpaceID,
		AuthorID:      d.AuthorID.Hex(),
		Tags:          d.Tags,
		Status:        article.Status(d.Status),
		ContentVector: d.ContentVector,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (r *ArticleRepository) Insert(ctx context.Context, a *article.Article) (*article.Article, error) {
	authorID, err := primitive.ObjectIDFromHex(a.AuthorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := articleDocument{
		Title:         a.Title,
		Content:       a.Content,
		SpaceID:       a.SpaceID,
		AuthorID:      authorID,
		Tags:          a.Tags,
		Status:        string(a.Status),
		ContentVector: a.ContentVector,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	result, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ID = result.InsertedID.(primitive.ObjectID)
	return doc.toArticle(), nil
}

func (r *ArticleRepository) FindByID(ctx context.Context, id string) (*article.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc articleDocument
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toArticle(), nil
}

func (r *ArticleRepository) FindMany(ctx context.Context, spaceID string) ([]*article.Article, error) {
	filter := bson.M{}
	if spaceID != "" {
		filter["spaceId"] = spaceID
	}

	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []articleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	articles := make([]*article.Article, 0, len(docs))
	for i := range docs {
		articles = append(articles, docs[i].toArticle())
	}
	return articles, nil
}

func (r *ArticleRepository) UpdateByID(ctx context.Context, id string, patch article.UpdatePatch) (*article.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Tags != nil {
		set["tags"] = *patch.Tags
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	// The vector is written only when regeneration produced one; a nil
	// vector leaves the stored value exactly as it was.
	if patch.ContentVector != nil {
		set["content_vector"] = patch.ContentVector
	}

	var doc articleDocument
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
	return doc.toArticle(), nil
}

func (r *ArticleRepository) DeleteByID(ctx context.Context, id string) (*article.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc articleDocument
	err = r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.toArticle(), nil
}

func (r *ArticleRepository) DeleteBySpace(ctx context.Context, spaceID string) (int64, error) {
	result, err := r.col.DeleteMany(ctx, bson.M{"spaceId": spaceID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// VectorSearch runs a $vectorSearch aggregation against the managed
// vector index and projects the searchable fields plus the native
// similarity score.
func (r *ArticleRepository) VectorSearch(ctx context.Context, queryVector []float32, limit, numCandidates int) ([]article.SearchResult, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: vectorIndexName},
			{Key: "path", Value: "content_vector"},
			{Key: "queryVector", Value: queryVector},
			{Key: "numCandidates", Value: numCandidates},
			{Key: "limit", Value: limit},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "title", Value: 1},
			{Key: "content", Value: 1},
			{Key: "spaceId", Value: 1},
			{Key: "authorId", Value: 1},
			{Key: "tags", Value: 1},
			{Key: "createdAt", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID        primitive.ObjectID `bson:"_id"`
		Title     string             `bson:"title"`
		Content   string             `bson:"content"`
		SpaceID   string             `bson:"spaceId"`
		AuthorID  primitive.ObjectID `bson:"authorId"`
		Tags      []string           `bson:"tags"`
		CreatedAt time.Time          `bson:"createdAt"`
		Score     float64            `bson:"score"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	results := make([]article.SearchResult, 0, len(docs))
	for _, d := range docs {
		results = append(results, article.SearchResult{
			ID:        d.ID.Hex(),
			Title:     d.Title,
			Content:   d.Content,
			SpaceID:   d.SpaceID,
			AuthorID:  d.AuthorID.Hex(),
			Tags:      d.Tags,
			CreatedAt: d.CreatedAt,
			Score:     d.Score,
		})
	}
	return results, nil
}
