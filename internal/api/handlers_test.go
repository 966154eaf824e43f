package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/prompt-general/knowledgehub/internal/ai"
	"github.com/prompt-general/knowledgehub/internal/apperr"
	"github.com/prompt-general/knowledgehub/internal/article"
	"github.com/prompt-general/knowledgehub/internal/config"
	"github.com/prompt-general/knowledgehub/internal/space"
	"github.com/prompt-general/knowledgehub/internal/user"
)

type stubArticleService struct {
	createdWith   string
	uploadedName  string
	searchResults []article.SearchResult
	searchErr     error
	generateErr   error
}

func (s *stubArticleService) Create(_ context.Context, in article.CreateInput, authorID string) (*article.Article, error) {
	s.createdWith = authorID
	return &article.Article{ID: primitive.NewObjectID().Hex(), Title: in.Title, Content: in.Content, SpaceID: in.SpaceID, AuthorID: authorID}, nil
}

func (s *stubArticleService) CreateFromFile(_ context.Context, raw []byte, fileName, spaceID, authorID string, tags []string) (*article.Article, error) {
	s.uploadedName = fileName
	return &article.Article{ID: primitive.NewObjectID().Hex(), Title: fileName, Content: string(raw), SpaceID: spaceID, AuthorID: authorID, Tags: tags}, nil
}

func (s *stubArticleService) FindAll(_ context.Context, _ string) ([]*article.Article, error) {
	return []*article.Article{}, nil
}

func (s *stubArticleService) FindOne(_ context.Context, id string) (*article.Article, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, apperr.InvalidArgumentf("invalid article id %q", id)
	}
	return nil, apperr.NotFoundf("article %s not found", id)
}

func (s *stubArticleService) Update(_ context.Context, id string, _ article.UpdateInput) (*article.Article, error) {
	return &article.Article{ID: id}, nil
}

func (s *stubArticleService) Remove(_ context.Context, id string) (*article.Article, error) {
	return &article.Article{ID: id}, nil
}

func (s *stubArticleService) Search(_ context.Context, query string, _ int) ([]article.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.InvalidArgument("search query must not be empty")
	}
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.searchResults, nil
}

func (s *stubArticleService) GenerateContent(_ context.Context, _ ai.GenerationRequest) (*ai.GenerationResponse, error) {
	if s.generateErr != nil {
		return nil, s.generateErr
	}
	return &ai.GenerationResponse{Content: "generated", TokensUsed: 7}, nil
}

type stubSpaceService struct {
	removedID string
}

func (s *stubSpaceService) Create(_ context.Context, in space.CreateInput, authorID string) (*space.Space, error) {
	return &space.Space{ID: primitive.NewObjectID().Hex(), Name: in.Name, AuthorID: authorID}, nil
}

func (s *stubSpaceService) FindAll(_ context.Context) ([]*space.Space, error) {
	return []*space.Space{}, nil
}

func (s *stubSpaceService) FindOne(_ context.Context, id string) (*space.Space, error) {
	return &space.Space{ID: id}, nil
}

func (s *stubSpaceService) Update(_ context.Context, id string, _ space.UpdateInput) (*space.Space, error) {
	return &space.Space{ID: id}, nil
}

func (s *stubSpaceService) Remove(_ context.Context, id string) (*space.Space, error) {
	s.removedID = id
	return &space.Space{ID: id}, nil
}

type stubUserService struct {
	synced *user.SyncInput
}

func (s *stubUserService) Sync(_ context.Context, in user.SyncInput) (*user.User, error) {
	s.synced = &in
	return &user.User{ID: primitive.NewObjectID().Hex(), Name: in.Name, Email: in.Email, GithubID: in.GithubID}, nil
}

type gatewayFixture struct {
	gateway  *Gateway
	articles *stubArticleService
	spaces   *stubSpaceService
	users    *stubUserService
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()
	articles := &stubArticleService{}
	spaces := &stubSpaceService{}
	users := &stubUserService{}
	gateway := NewGateway(
		config.ServerConfig{Host: "127.0.0.1", Port: 0},
		config.UploadConfig{MaxFileSize: 1 << 20, AllowedExtensions: []string{".md", ".txt"}},
		articles, spaces, users,
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }),
		zap.NewNop(),
	)
	return &gatewayFixture{gateway: gateway, articles: articles, spaces: spaces, users: users}
}

func (f *gatewayFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.gateway.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestArticleRoutesRequireUserHeader(t *testing.T) {
	f := newGatewayFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	rr := f.do(req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	resp := decodeResponse(t, rr)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(apperr.KindUnauthorized), resp.Error.Code)
}

func TestArticleRoutesRejectMalformedUserHeader(t *testing.T) {
	f := newGatewayFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set("x-user-id", "not-an-object-id")
	rr := f.do(req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateArticlePassesUserIdentity(t *testing.T) {
	f := newGatewayFixture(t)
	userID := primitive.NewObjectID().Hex()

	body, _ := json.Marshal(map[string]any{
		"title":   "T",
		"content": "C",
		"spaceId": primitive.NewObjectID().Hex(),
	})
	req := httptest.NewRequest(http.MethodPost, "/articles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-user-id", userID)
	rr := f.do(req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, userID, f.articles.createdWith)
}

func TestCreateArticleRejectsMalformedBody(t *testing.T) {
	f := newGatewayFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader("{not json"))
	req.Header.Set("x-user-id", primitive.NewObjectID().Hex())
	rr := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateArticleRejectsInvalidSpaceID(t *testing.T) {
	f := newGatewayFixture(t)

	body, _ := json.Marshal(map[string]any{
		"title":   "T",
		"content": "C",
		"spaceId": "not-an-id",
	})
	req := httptest.NewRequest(http.MethodPost, "/articles", bytes.NewReader(body))
	req.Header.Set("x-user-id", primitive.NewObjectID().Hex())
	rr := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSearchMapsServiceErrors(t *testing.T) {
	f := newGatewayFixture(t)
	f.articles.searchErr = apperr.SearchFailed("vector search failed", assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/articles/search?q=go", nil)
	req.Header.Set("x-user-id", primitive.NewObjectID().Hex())
	rr := f.do(req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	resp := decodeResponse(t, rr)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(apperr.KindSearchFailed), resp.Error.Code)
}

func TestSearchRejectsNonNumericLimit(t *testing.T) {
	f := newGatewayFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/articles/search?q=go&limit=abc", nil)
	req.Header.Set("x-user-id", primitive.NewObjectID().Hex())
	rr := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSearchEmptyQueryReturnsBadRequest(t *testing.T) {
	f := newGatewayFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/articles/search", nil)
	req.Header.Set("x-user-id", primitive.NewObjectID().Hex())
	rr := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetArticleNotFound(t *testing.T) {
	f := newGatewayFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/articles/"+primitive.NewObjectID().Hex(), nil)
	req.Header.Set("x-user-id", primitive.NewObjectID().Hex())
	rr := f.do(req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGenerateContentRejectsOverlongPrompt(t *testing.T) {
	f := newGatewayFixture(t)

	body, _ := json.Marshal(map[string]any{"prompt": strings.Repeat("x", 1001)})
	req := httptest.NewRequest(http.MethodPost, "/articles/generate", bytes.NewReader(body))
	req.Header.Set("x-user-id", primitive.NewObjectID().Hex())
	rr := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGenerateContentFailureMapsToBadGateway(t *testing.T) {
	f := newGatewayFixture(t)
	f.articles.generateErr = apperr.GenerationFailed("failed to generate content", assert.AnError)

	body, _ := json.Marshal(map[string]any{"prompt": "write about Go"})
	req := httptest.NewRequest(http.MethodPost, "/articles/generate", bytes.NewReader(body))
	req.Header.Set("x-user-id", primitive.NewObjectID().Hex())
	rr := f.do(req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func newUploadRequest(t *testing.T, fileName, content, spaceID string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("spaceId", spaceID))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/articles/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("x-user-id", primitive.NewObjectID().Hex())
	return req
}

func TestUploadAcceptsMarkdownFile(t *testing.T) {
	f := newGatewayFixture(t)

	req := newUploadRequest(t, "notes.md", "# Notes", primitive.NewObjectID().Hex())
	rr := f.do(req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "notes.md", f.articles.uploadedName)
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	f := newGatewayFixture(t)

	req := newUploadRequest(t, "payload.exe", "MZ", primitive.NewObjectID().Hex())
	rr := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	f := newGatewayFixture(t)

	req := newUploadRequest(t, "empty.md", "   ", primitive.NewObjectID().Hex())
	rr := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadRejectsInvalidSpaceID(t *testing.T) {
	f := newGatewayFixture(t)

	req := newUploadRequest(t, "notes.md", "# Notes", "not-an-id")
	rr := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUserSyncIsPublic(t *testing.T) {
	f := newGatewayFixture(t)

	body, _ := json.Marshal(map[string]any{
		"name":     "Ada",
		"email":    "ada@example.com",
		"githubId": "gh-123",
	})
	req := httptest.NewRequest(http.MethodPost, "/users/sync", bytes.NewReader(body))
	rr := f.do(req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, f.users.synced)
	assert.Equal(t, "gh-123", f.users.synced.GithubID)
}

func TestUserSyncValidatesEmail(t *testing.T) {
	f := newGatewayFixture(t)

	body, _ := json.Marshal(map[string]any{
		"name":     "Ada",
		"email":    "not-an-email",
		"githubId": "gh-123",
	})
	req := httptest.NewRequest(http.MethodPost, "/users/sync", bytes.NewReader(body))
	rr := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealthEndpointIsPublic(t *testing.T) {
	f := newGatewayFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := f.do(req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestDeleteSpacePassesID(t *testing.T) {
	f := newGatewayFixture(t)
	id := primitive.NewObjectID().Hex()

	req := httptest.NewRequest(http.MethodDelete, "/spaces/"+id, nil)
	req.Header.Set("x-user-id", primitive.NewObjectID().Hex())
	rr := f.do(req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, id, f.spaces.removedID)
}
