package ai

import (
	"context"
	"fmt"

	"go-invoicehub/internal/config"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// TextGenerator completes a prompt into text. The OpenAI implementation
// walks the credential roster; callers decide whether a total failure is
// silent (insights) or surfaced (chat).
type TextGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type openAIGenerator struct {
	roster *Roster
	model  string
	log    *zap.Logger
}

func NewOpenAIGenerator(cfg *config.Config, log *zap.Logger) TextGenerator {
	return &openAIGenerator{
		roster: NewRoster(cfg.OpenAIKeys),
		model:  cfg.OpenAIModel,
		log:    log,
	}
}

func (g *openAIGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	keys := g.roster.Shuffled()

	return Try(keys, func(key string) (string, error) {
		client := openai.NewClient(option.WithAPIKey(key))

		resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(g.model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.UserMessage(prompt),
			},
		})
		if err != nil {
			g.log.Warn("ai completion attempt failed", zap.Error(err))
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("empty completion response")
		}
		return resp.Choices[0].Message.Content, nil
	})
}
