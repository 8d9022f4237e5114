package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/dialog-digest/internal/transcriber"
)

// videoFormats are containers reduced to an audio track before upload.
var videoFormats = map[string]bool{
	".mov": true, ".mkv": true, ".avi": true, ".m4v": true, ".flv": true,
}

// IsSupported reports whether path can be processed, directly or after
// audio extraction.
func IsSupported(path string) bool {
	return transcriber.MediaFormat(path) != "" || videoFormats[strings.ToLower(filepath.Ext(path))]
}

// prepareMedia returns a file the transcription service accepts. When an
// audio track had to be extracted, temp is true and the caller removes it.
func (p *implProcessor) prepareMedia(ctx context.Context, mediaPath string) (path string, temp bool, err error) {
	if transcriber.MediaFormat(mediaPath) != "" {
		return mediaPath, false, nil
	}
	if !videoFormats[strings.ToLower(filepath.Ext(mediaPath))] {
		return "", false, fmt.Errorf("unsupported media file: %s", mediaPath)
	}

	audioPath, err := p.extractAudio(ctx, mediaPath)
	if err != nil {
		return "", false, err
	}
	return audioPath, true, nil
}

// extractAudio drops the video stream and encodes the audio as mono mp3.
func (p *implProcessor) extractAudio(ctx context.Context, videoPath string) (string, error) {
	ffmpeg := p.cfg.FFmpeg.BinaryPath
	if !p.executor.Available(ffmpeg) {
		return "", fmt.Errorf("%s not found, required to extract audio from %s", ffmpeg, filepath.Base(videoPath))
	}

	if err := os.MkdirAll(p.cfg.Paths.Temp, 0755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(p.cfg.Paths.Temp, base+".mp3")

	p.logger.Info(ctx, "Extracting audio: %s", videoPath)

	args := []string{
		"-i", videoPath,
		"-vn",      // No video
		"-ac", "1", // Mono
		"-c:a", "libmp3lame",
		"-b:a", p.cfg.FFmpeg.AudioBitrate,
		"-y",
		audioPath,
	}

	if _, err := p.executor.Execute(ctx, ffmpeg, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	p.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return audioPath, nil
}
