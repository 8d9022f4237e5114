package summarizer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/nguyentantai21042004/dialog-digest/internal/config"
	"github.com/nguyentantai21042004/dialog-digest/internal/logger"
)

// generation holds the sampling settings shared by every provider.
type generation struct {
	model       string
	maxTokens   int
	temperature float64
	topP        float64
}

func generationFrom(cfg config.SummarizerConfig) generation {
	return generation{
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		topP:        cfg.TopPValue(),
	}
}

// New creates the Summarizer selected by cfg.Provider.
func New(ctx context.Context, cfg config.SummarizerConfig, awsCfg config.AWSConfig, log logger.Logger) (Summarizer, error) {
	switch cfg.Provider {
	case config.ProviderBedrock, "":
		sdkCfg, err := awsCfg.SDKConfig(ctx)
		if err != nil {
			return nil, err
		}
		return newBedrock(bedrockruntime.NewFromConfig(sdkCfg), generationFrom(cfg), log), nil
	case config.ProviderGemini:
		if len(cfg.APIKeys) == 0 {
			return nil, fmt.Errorf("gemini: no API keys configured")
		}
		return newGemini(cfg.APIKeys, generationFrom(cfg), log), nil
	default:
		return nil, fmt.Errorf("unsupported summarizer provider %q", cfg.Provider)
	}
}
