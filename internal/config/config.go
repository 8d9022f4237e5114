package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AWS         AWSConfig         `yaml:"aws"`
	Transcribe  TranscribeConfig  `yaml:"transcribe"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Paths       PathsConfig       `yaml:"paths"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

// AWSConfig is passed explicitly to every AWS client. Empty keys fall back
// to the SDK's default credential chain.
type AWSConfig struct {
	Region         string `yaml:"region"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	Bucket         string `yaml:"bucket"`
	Endpoint       string `yaml:"endpoint"`
	ForcePathStyle bool   `yaml:"force_path_style"`
	Cleanup        bool   `yaml:"cleanup"`
}

type TranscribeConfig struct {
	LanguageCode string        `yaml:"language_code"`
	MediaFormat  string        `yaml:"media_format"`
	MaxSpeakers  int           `yaml:"max_speakers"`
	Diarization  *bool         `yaml:"diarization"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Timeout      time.Duration `yaml:"timeout"`
}

type SummarizerConfig struct {
	Provider    string   `yaml:"provider"`
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature float64  `yaml:"temperature"`
	TopP        *float64 `yaml:"top_p"`
	APIKeys     []string `yaml:"api_keys"`
}

type FFmpegConfig struct {
	BinaryPath   string `yaml:"binary_path"`
	AudioBitrate string `yaml:"audio_bitrate"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Template string `yaml:"template"`
	Temp     string `yaml:"temp"`
}

type OutputConfig struct {
	Subtitles bool `yaml:"subtitles"`
	Docx      bool `yaml:"docx"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

const (
	ProviderBedrock = "bedrock"
	ProviderGemini  = "gemini"

	DefaultTopP = 0.9
)

// Load reads a YAML config file, expanding ${VAR} references from the
// environment, and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TopPValue returns the configured nucleus sampling value, or DefaultTopP.
func (c SummarizerConfig) TopPValue() float64 {
	if c.TopP == nil {
		return DefaultTopP
	}
	return *c.TopP
}

// SpeakerLabels reports whether diarization is requested. It defaults to on.
func (c TranscribeConfig) SpeakerLabels() bool {
	return c.Diarization == nil || *c.Diarization
}

func (c *Config) Validate() error {
	if c.AWS.Bucket == "" {
		return fmt.Errorf("aws.bucket is required")
	}
	if (c.AWS.AccessKey == "") != (c.AWS.SecretKey == "") {
		return fmt.Errorf("aws.access_key and aws.secret_key must be set together")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Transcribe.MaxSpeakers < 0 || c.Transcribe.MaxSpeakers == 1 || c.Transcribe.MaxSpeakers > 30 {
		return fmt.Errorf("transcribe.max_speakers must be between 2 and 30")
	}

	switch c.Summarizer.Provider {
	case "":
		c.Summarizer.Provider = ProviderBedrock
	case ProviderBedrock:
	case ProviderGemini:
		if len(c.Summarizer.APIKeys) == 0 {
			return fmt.Errorf("summarizer.api_keys is required for gemini")
		}
	default:
		return fmt.Errorf("summarizer.provider %q is not supported", c.Summarizer.Provider)
	}

	if c.AWS.Region == "" {
		c.AWS.Region = "us-west-2"
	}
	if c.Transcribe.LanguageCode == "" {
		c.Transcribe.LanguageCode = "en-US"
	}
	if c.Transcribe.MaxSpeakers == 0 {
		c.Transcribe.MaxSpeakers = 2
	}
	if c.Transcribe.PollInterval <= 0 {
		c.Transcribe.PollInterval = 2 * time.Second
	}
	if c.Transcribe.Timeout <= 0 {
		c.Transcribe.Timeout = 30 * time.Minute
	}
	if c.Summarizer.Model == "" {
		if c.Summarizer.Provider == ProviderGemini {
			c.Summarizer.Model = "gemini-2.5-flash"
		} else {
			c.Summarizer.Model = "amazon.titan-text-express-v1"
		}
	}
	if c.Summarizer.MaxTokens == 0 {
		c.Summarizer.MaxTokens = 2048
	}
	if c.Summarizer.TopP == nil {
		topP := DefaultTopP
		c.Summarizer.TopP = &topP
	} else if *c.Summarizer.TopP < 0 || *c.Summarizer.TopP > 1 {
		return fmt.Errorf("summarizer.top_p must be between 0 and 1")
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.AudioBitrate == "" {
		c.FFmpeg.AudioBitrate = "128k"
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
