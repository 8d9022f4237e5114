package processor

import "context"

// Result lists what one pipeline run produced.
type Result struct {
	JobName        string
	Transcript     string
	Summary        string
	TranscriptPath string
	SummaryPath    string

	// Extra holds optional artifacts (subtitles, docx).
	Extra []string
}

// Processor runs one media file through transcription and summarization.
type Processor interface {
	Process(ctx context.Context, mediaPath string) (Result, error)
}
