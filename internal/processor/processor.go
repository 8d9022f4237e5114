package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/dialog-digest/internal/prompt"
	"github.com/nguyentantai21042004/dialog-digest/internal/transcriber"
	"github.com/nguyentantai21042004/dialog-digest/internal/transcript"
)

// Process uploads the media, transcribes it with speaker labels, renders
// the prompt from the reconstructed transcript and writes the summary.
func (p *implProcessor) Process(ctx context.Context, mediaPath string) (Result, error) {
	startTime := time.Now()
	jobName := p.newJobName()
	res := Result{JobName: jobName}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting %s: %s", jobName, mediaPath)
	p.logger.Info(ctx, "========================================")

	// Template problems should fail before any remote work is paid for.
	tmpl, err := p.loadTemplate(ctx)
	if err != nil {
		return res, fmt.Errorf("load template: %w", err)
	}

	// Step 1: Make sure the service can read the media
	audioPath, temp, err := p.prepareMedia(ctx, mediaPath)
	if err != nil {
		return res, fmt.Errorf("prepare media: %w", err)
	}
	if temp {
		defer p.cleanupTempFile(ctx, audioPath)
	}

	// Step 2: Upload and transcribe
	mediaKey := jobName + "/" + filepath.Base(audioPath)
	outputKey := jobName + ".json"
	if err := p.storage.UploadFile(ctx, mediaKey, audioPath); err != nil {
		return res, fmt.Errorf("upload: %w", err)
	}
	if p.cfg.AWS.Cleanup {
		defer p.cleanupRemote(context.WithoutCancel(ctx), jobName, mediaKey, outputKey)
	}

	// Extracted audio is always mp3, whatever the configured format.
	format := p.cfg.Transcribe.MediaFormat
	if temp {
		format = transcriber.MediaFormat(audioPath)
	}

	job := transcriber.Job{
		Name:          jobName,
		MediaURI:      p.storage.URI(mediaKey),
		MediaFormat:   format,
		LanguageCode:  p.cfg.Transcribe.LanguageCode,
		OutputBucket:  p.storage.Bucket(),
		SpeakerLabels: p.cfg.Transcribe.SpeakerLabels(),
		MaxSpeakers:   p.cfg.Transcribe.MaxSpeakers,
	}
	if err := p.transcriber.Start(ctx, job); err != nil {
		return res, fmt.Errorf("transcribe: %w", err)
	}
	if _, err := p.transcriber.Wait(ctx, jobName); err != nil {
		return res, fmt.Errorf("transcribe: %w", err)
	}

	// Step 3: Rebuild the speaker-attributed transcript
	result, err := p.fetchTranscript(ctx, outputKey)
	if err != nil {
		return res, fmt.Errorf("fetch transcript: %w", err)
	}
	text, err := transcript.Reconstruct(result.Tokens)
	if err != nil {
		return res, fmt.Errorf("reconstruct transcript: %w", err)
	}
	if text == "" {
		p.logger.Warn(ctx, "Transcript for %s is empty", jobName)
	}
	res.Transcript = text

	if err := os.MkdirAll(p.cfg.Paths.Output, 0755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}
	if res.TranscriptPath, err = p.writeText(ctx, jobName+".txt", text); err != nil {
		return res, err
	}
	res.Extra = append(res.Extra, p.writeTranscriptExtras(ctx, jobName, text, result.Tokens)...)

	// Step 4: Render the prompt and summarize
	promptText, err := prompt.Render(tmpl, text)
	if err != nil {
		return res, fmt.Errorf("render prompt: %w", err)
	}
	summary, err := p.summarizer.Summarize(ctx, promptText)
	if err != nil {
		return res, fmt.Errorf("summarize: %w", err)
	}
	res.Summary = summary

	if res.SummaryPath, err = p.writeText(ctx, "result-"+jobName+".txt", summary); err != nil {
		return res, err
	}
	res.Extra = append(res.Extra, p.writeSummaryExtras(ctx, jobName, summary)...)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Transcript: %s", res.TranscriptPath)
	p.logger.Info(ctx, "Summary: %s", res.SummaryPath)
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime))
	p.logger.Info(ctx, "========================================")

	return res, nil
}

// loadTemplate reads the configured template file, or falls back to the
// built-in one. Templates with unbound placeholders are rejected here.
func (p *implProcessor) loadTemplate(ctx context.Context) (string, error) {
	tmpl := prompt.Default
	if path := p.cfg.Paths.Template; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		tmpl = prompt.Normalize(string(data))
	}

	for _, key := range prompt.Keys(tmpl) {
		if key != prompt.Key {
			return "", &prompt.TemplateError{Key: key}
		}
	}
	if !prompt.References(tmpl, prompt.Key) {
		p.logger.Warn(ctx, "Prompt template never references {{ %s }}", prompt.Key)
	}
	return tmpl, nil
}

func (p *implProcessor) fetchTranscript(ctx context.Context, key string) (*transcript.Result, error) {
	rc, err := p.storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	result, err := transcript.Parse(rc)
	if err != nil {
		return nil, err
	}
	p.logger.Info(ctx, "Transcript has %d items, %d speakers", len(result.Tokens), result.Speakers)
	return result, nil
}
