package api

import (
	"github.com/prompt-general/knowledgehub/internal/article"
	"github.com/prompt-general/knowledgehub/internal/space"
)

type createArticleRequest struct {
	Title   string   `json:"title" validate:"required"`
	Content string   `json:"content" validate:"required"`
	SpaceID string   `json:"spaceId" validate:"required,objectid"`
	Tags    []string `json:"tags" validate:"omitempty,dive,required"`
	Status  string   `json:"status" validate:"omitempty,oneof=DRAFT IN_REVIEW PUBLISHED"`
}

type updateArticleRequest struct {
	Title   *string   `json:"title" validate:"omitempty,min=1"`
	Content *string   `json:"content" validate:"omitempty,min=1"`
	Tags    *[]string `json:"tags" validate:"omitempty,dive,required"`
	Status  *string   `json:"status" validate:"omitempty,oneof=DRAFT IN_REVIEW PUBLISHED"`
}

func (req *updateArticleRequest) toInput() article.UpdateInput {
	in := article.UpdateInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if req.Status != nil {
		status := article.Status(*req.Status)
		in.Status = &status
	}
	return in
}

type generateContentRequest struct {
	Prompt      string   `json:"prompt" validate:"required,max=1000"`
	Temperature *float32 `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	MaxTokens   *int     `json:"maxTokens" validate:"omitempty,gte=100,lte=4000"`
}

type createSpaceRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Settings    *space.Settings `json:"settings"`
}

type updateSpaceRequest struct {
	Name        *string         `json:"name" validate:"omitempty,min=1"`
	Description *string         `json:"description"`
	Settings    *space.Settings `json:"settings"`
}

type syncUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	GithubID string `json:"githubId" validate:"required"`
	Avatar   string `json:"avatar"`
}
