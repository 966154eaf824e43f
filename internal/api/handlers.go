package api

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/prompt-general/knowledgehub/internal/ai"
	"github.com/prompt-general/knowledgehub/internal/apperr"
	"github.com/prompt-general/knowledgehub/internal/article"
	"github.com/prompt-general/knowledgehub/internal/space"
	"github.com/prompt-general/knowledgehub/internal/user"
)

// Article handlers

func (g *Gateway) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, apperr.InvalidArgument(err.Error()))
		return
	}
	if err := g.validate.Struct(&req); err != nil {
		writeError(w, apperr.InvalidArgument(err.Error()))
		return
	}

	created, err := g.articles.Create(r.Context(), article.CreateInput{
		Title:   req.Title,
		Content: req.Content,
		SpaceID: req.SpaceID,
		Tags:    req.Tags,
		Status:  article.Status(req.Status),
	}, UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, created)
}

func (g *Gateway) handleListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := g.articles.FindAll(r.Context(), r.URL.Query().Get("spaceId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, articles)
}

func (g *Gateway) handleSearchArticles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, apperr.InvalidArgument("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	results, err := g.articles.Search(r.Context(), query, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, results)
}

func (g *Gateway) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := g.articles.FindOne(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, a)
}

func (g *Gateway) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req updateArticleRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, apperr.InvalidArgument(err.Error()))
		return
	}
	if err := g.validate.Struct(&req); err != nil {
		writeError(w, apperr.InvalidArgument(err.Error()))
		return
	}

	updated, err := g.articles.Update(r.Context(), mux.Vars(r)["id"], req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, updated)
}

func (g *Gateway) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	deleted, err := g.articles.Remove(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, deleted)
}

func (g *Gateway) handleGenerateContent(w http.ResponseWriter, r *http.Request) {
	var req generateContentRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, apperr.InvalidArgument(err.Error()))
		return
	}
	if err := g.validate.Struct(&req); err != nil {
		writeError(w, apperr.InvalidArgument(err.Error()))
		return
	}

	resp, err := g.articles.GenerateContent(r.Context(), ai.GenerationRequest{
		Prompt:      req.Prompt,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, resp)
}

func (g *Gateway) handleUploadArticle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, g.uploadConfig.MaxFileSize)
	if err := r.ParseMultipartForm(g.uploadConfig.MaxFileSize); err != nil {
		writeError(w, apperr.InvalidArgument("file exceeds the upload size limit"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperr.InvalidArgument("missing file field"))
		return
	}
	defer file.Close()

	if !g.allowedExtension(header.Filename) {
		writeError(w, apperr.InvalidArgumentf("unsupported file type %q", filepath.Ext(header.Filename)))
		return
	}

	spaceID := r.FormValue("spaceId")
	if err := g.validate.Var(spaceID, "required,objectid"); err != nil {
		writeError(w, apperr.InvalidArgument("spaceId must be a valid id"))
		return
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, apperr.InvalidArgument("failed to read uploaded file"))
		return
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		writeError(w, apperr.InvalidArgument("uploaded file is empty"))
		return
	}

	created, err := g.articles.CreateFromFile(r.Context(), raw, header.Filename, spaceID, UserID(r), r.Form["tags"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, created)
}

func (g *Gateway) allowedExtension(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, allowed := range g.uploadConfig.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Space handlers

func (g *Gateway) handleCreateSpace(w http.ResponseWriter, r *http.Request) {
	var req createSpaceRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, apperr.InvalidArgument(err.Error()))
		return
	}
	if err := g.validate.Struct(&req); err != nil {
		writeError(w, apperr.InvalidArgument(err.Error()))
		return
	}

	created, err := g.spaces.Create(r.Context(), space.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Settings:    req.Settings,
	}, UserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, created)
}

func (g *Gateway) handleListSpaces(w http.ResponseWriter, r *http.Request) {
	spaces, err := g.spaces.FindAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, spaces)
}

func (g *Gateway) handleGetSpace(w http.ResponseWriter, r *http.Request) {
	sp, err := g.spaces.FindOne(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, sp)
}

func (g *Gateway) handleUpdateSpace(w http.ResponseWriter, r *http.Request) {
	var req updateSpaceRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, apperr.InvalidArgument(err.Error()))
		return
	}
	if err := g.validate.Struct(&req); err != nil {
		writeError(w, apperr.InvalidArgument(err.Error()))
		return
	}

	updated, err := g.spaces.Update(r.Context(), mux.Vars(r)["id"], space.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Settings:    req.Settings,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, updated)
}

func (g *Gateway) handleDeleteSpace(w http.ResponseWriter, r *http.Request) {
	deleted, err := g.spaces.Remove(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, deleted)
}

// User handlers

func (g *Gateway) handleSyncUser(w http.ResponseWriter, r *http.Request) {
	var req syncUserRequest
	if err := parseRequestBody(r, &req); err != nil {
		writeError(w, apperr.InvalidArgument(err.Error()))
		return
	}
	if err := g.validate.Struct(&req); err != nil {
		writeError(w, apperr.InvalidArgument(err.Error()))
		return
	}

	synced, err := g.users.Sync(r.Context(), user.SyncInput{
		Name:     req.Name,
		Email:    req.Email,
		GithubID: req.GithubID,
		Avatar:   req.Avatar,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, synced)
}
