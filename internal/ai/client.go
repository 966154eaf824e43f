package ai

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/prompt-general/knowledgehub/internal/apperr"
	"github.com/prompt-general/knowledgehub/internal/config"
)

const (
	embeddingModel  = openai.SmallEmbedding3
	generationModel = openai.GPT4

	systemPrompt = "You are a technical writing assistant specialized in producing clear documentation and articles."

	defaultTemperature = 0.7
	defaultMaxTokens   = 2000
)

// Client wraps the OpenAI API behind the two adapter contracts the
// article service consumes: best-effort embeddings and content generation.
type Client struct {
	api     *openai.Client
	timeout time.Duration
	log     *zap.Logger
}

// NewClient creates a Client from configuration. An empty API key is not
// an error here; every provider call will simply fail, which the
// embedding path absorbs and the generation path reports.
func NewClient(cfg config.OpenAIConfig, log *zap.Logger) *Client {
	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}

	if cfg.APIKey == "" {
		log.Warn("OPENAI_API_KEY is not configured; AI features will be unavailable")
	}

	return &Client{
		api:     openai.NewClientWithConfig(apiConfig),
		timeout: cfg.RequestTimeout,
		log:     log,
	}
}

// GenerateEmbedding converts text to an embedding vector. It returns nil
// when the provider fails or returns no embedding; it never returns an
// error. Embeddings are an enhancement to search, not a requirement for
// persistence, so callers must be able to proceed without one.
func (c *Client) GenerateEmbedding(ctx context.Context, text string) []float32 {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	c.log.Debug("generating embedding", zap.Int("chars", len(text)))

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: embeddingModel,
		Input: []string{text},
	})
	if err != nil {
		c.log.Error("embedding request failed", zap.Error(err))
		return nil
	}

	if len(resp.Data) == 0 {
		c.log.Warn("provider returned no embedding")
		return nil
	}

	embedding := resp.Data[0].Embedding
	c.log.Info("embedding generated", zap.Int("dimensions", len(embedding)))
	return embedding
}

// GenerateContent produces article text from a prompt. Unlike embeddings,
// a provider failure here is the failure of the request itself and is
// returned to the caller wrapping the provider message.
func (c *Client) GenerateContent(ctx context.Context, req GenerationRequest) (*GenerationResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	temperature := float32(defaultTemperature)
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := defaultMaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	completion, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: generationModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		c.log.Error("content generation failed", zap.Error(err))
		return nil, apperr.GenerationFailed("failed to generate content", err)
	}

	content := ""
	if len(completion.Choices) > 0 {
		content = completion.Choices[0].Message.Content
	}

	c.log.Info("content generated", zap.Int("tokens_used", completion.Usage.TotalTokens))

	return &GenerationResponse{
		Content:    content,
		TokensUsed: completion.Usage.TotalTokens,
	}, nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
