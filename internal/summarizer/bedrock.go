package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/nguyentantai21042004/dialog-digest/internal/logger"
)

type bedrockAPI interface {
	InvokeModel(ctx context.Context, in *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// titanRequest is the Amazon Titan Text request body.
type titanRequest struct {
	InputText            string                `json:"inputText"`
	TextGenerationConfig titanGenerationConfig `json:"textGenerationConfig"`
}

type titanGenerationConfig struct {
	MaxTokenCount int     `json:"maxTokenCount"`
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"topP"`
}

type titanResponse struct {
	InputTextTokenCount int `json:"inputTextTokenCount"`
	Results             []struct {
		TokenCount       int    `json:"tokenCount"`
		OutputText       string `json:"outputText"`
		CompletionReason string `json:"completionReason"`
	} `json:"results"`
}

type implBedrock struct {
	client bedrockAPI
	gen    generation
	logger logger.Logger
}

func newBedrock(client bedrockAPI, gen generation, log logger.Logger) *implBedrock {
	return &implBedrock{client: client, gen: gen, logger: log}
}

// Summarize invokes the Titan text model with prompt and returns the
// trimmed output of the first result.
func (b *implBedrock) Summarize(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(titanRequest{
		InputText: prompt,
		TextGenerationConfig: titanGenerationConfig{
			MaxTokenCount: b.gen.maxTokens,
			Temperature:   b.gen.temperature,
			TopP:          b.gen.topP,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	b.logger.Info(ctx, "Invoking %s (%d prompt chars)", b.gen.model, len(prompt))

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.gen.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("*/*"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("invoke model: %w", err)
	}

	var resp titanResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Results) == 0 {
		return "", ErrEmptyResponse
	}

	r := resp.Results[0]
	b.logger.Debug(ctx, "Model returned %d tokens (%s), prompt used %d",
		r.TokenCount, r.CompletionReason, resp.InputTextTokenCount)
	if r.CompletionReason == "LENGTH" {
		b.logger.Warn(ctx, "Summary truncated at %d tokens", b.gen.maxTokens)
	}

	text := strings.TrimSpace(r.OutputText)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

var _ Summarizer = (*implBedrock)(nil)
