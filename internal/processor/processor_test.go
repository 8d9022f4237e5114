package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nguyentantai21042004/dialog-digest/internal/config"
	"github.com/nguyentantai21042004/dialog-digest/internal/logger"
	"github.com/nguyentantai21042004/dialog-digest/internal/prompt"
	"github.com/nguyentantai21042004/dialog-digest/internal/transcriber"
)

const jobOutput = `{
  "jobName": "transcription-job-test",
  "results": {
    "transcripts": [{"transcript": "Hello, world. Hi."}],
    "speaker_labels": {"speakers": 2, "segments": []},
    "items": [
      {"start_time": "0.0", "end_time": "0.5", "type": "pronunciation", "speaker_label": "spk_0", "alternatives": [{"content": "Hello"}]},
      {"type": "punctuation", "speaker_label": "spk_0", "alternatives": [{"content": ","}]},
      {"start_time": "0.5", "end_time": "1.0", "type": "pronunciation", "speaker_label": "spk_0", "alternatives": [{"content": "world"}]},
      {"type": "punctuation", "speaker_label": "spk_0", "alternatives": [{"content": "."}]},
      {"start_time": "2.0", "end_time": "2.5", "type": "pronunciation", "speaker_label": "spk_1", "alternatives": [{"content": "Hi"}]},
      {"type": "punctuation", "speaker_label": "spk_1", "alternatives": [{"content": "."}]}
    ]
  }
}`

type fakeStorage struct {
	mu      sync.Mutex
	bucket  string
	objects map[string][]byte
	deleted []string
}

func (s *fakeStorage) Upload(_ context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) UploadFile(ctx context.Context, key, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.Upload(ctx, key, bytes.NewReader(data))
}

func (s *fakeStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such key %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) URI(key string) string { return "s3://" + s.bucket + "/" + key }
func (s *fakeStorage) Bucket() string { return s.bucket }

// fakeTranscriber drops the canned job output into storage when waited on.
type fakeTranscriber struct {
	store   *fakeStorage
	output  string
	waitErr error
	started []transcriber.Job
	deleted []string
}

func (f *fakeTranscriber) Start(_ context.Context, job transcriber.Job) error {
	f.started = append(f.started, job)
	return nil
}

func (f *fakeTranscriber) Wait(ctx context.Context, name string) (transcriber.Status, error) {
	if f.waitErr != nil {
		return transcriber.Status{Name: name, State: "FAILED"}, f.waitErr
	}
	if err := f.store.Upload(ctx, name+".json", strings.NewReader(f.output)); err != nil {
		return transcriber.Status{}, err
	}
	return transcriber.Status{Name: name, State: "COMPLETED"}, nil
}

func (f *fakeTranscriber) Delete(_ context.Context, name string) error {
	f.deleted = append(f.deleted, name)
	return nil
}

type fakeSummarizer struct {
	prompts []string
}

func (f *fakeSummarizer) Summarize(_ context.Context, p string) (string, error) {
	f.prompts = append(f.prompts, p)
	return "They greeted each other.", nil
}

type fakeExecutor struct {
	calls     [][]string
	available bool
}

func (f *fakeExecutor) Execute(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	// Pretend ffmpeg wrote its output file.
	out := args[len(args)-1]
	return "", os.WriteFile(out, []byte("mp3"), 0644)
}

func (f *fakeExecutor) Available(string) bool { return f.available }

type fixture struct {
	cfg   *config.Config
	store *fakeStorage
	tr    *fakeTranscriber
	sum   *fakeSummarizer
	exec  *fakeExecutor
	proc  *implProcessor
	dir   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.Config{
		AWS:   config.AWSConfig{Bucket: "meetings", Cleanup: true},
		Paths: config.PathsConfig{Output: filepath.Join(dir, "out"), Temp: filepath.Join(dir, "tmp")},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	store := &fakeStorage{bucket: "meetings", objects: make(map[string][]byte)}
	f := &fixture{
		cfg:   cfg,
		store: store,
		tr:    &fakeTranscriber{store: store, output: jobOutput},
		sum:   &fakeSummarizer{},
		exec:  &fakeExecutor{available: true},
		dir:   dir,
	}
	f.proc = New(cfg, f.store, f.tr, f.sum, f.exec, logger.NewWithFormat("error", "text", io.Discard)).(*implProcessor)
	f.proc.newJobName = func() string { return "transcription-job-test" }
	return f
}

func (f *fixture) media(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, []byte("media"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcess(t *testing.T) {
	f := newFixture(t)
	tmplPath := filepath.Join(f.dir, "prompt_template.txt")
	if err := os.WriteFile(tmplPath, []byte("Summarize:\n{{ transcript }}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	f.cfg.Paths.Template = tmplPath
	f.cfg.Output.Subtitles = true

	res, err := f.proc.Process(context.Background(), f.media(t, "dialog.mp3"))
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	wantTranscript := "spk_0: Hello, world.\nspk_1: Hi."
	if res.Transcript != wantTranscript {
		t.Errorf("Transcript = %q, want %q", res.Transcript, wantTranscript)
	}
	if res.Summary != "They greeted each other." {
		t.Errorf("Summary = %q", res.Summary)
	}

	if len(f.tr.started) != 1 {
		t.Fatalf("started %d jobs", len(f.tr.started))
	}
	job := f.tr.started[0]
	if job.MediaURI != "s3://meetings/transcription-job-test/dialog.mp3" || job.OutputBucket != "meetings" {
		t.Errorf("job = %+v", job)
	}
	if !job.SpeakerLabels || job.MaxSpeakers != 2 || job.LanguageCode != "en-US" {
		t.Errorf("job settings = %+v", job)
	}

	if len(f.sum.prompts) != 1 || f.sum.prompts[0] != "Summarize:\n"+wantTranscript {
		t.Errorf("prompts = %q", f.sum.prompts)
	}

	data, err := os.ReadFile(res.TranscriptPath)
	if err != nil || string(data) != wantTranscript {
		t.Errorf("transcript file = %q, %v", data, err)
	}
	data, err = os.ReadFile(res.SummaryPath)
	if err != nil || string(data) != "They greeted each other." {
		t.Errorf("summary file = %q, %v", data, err)
	}
	if filepath.Base(res.SummaryPath) != "result-transcription-job-test.txt" {
		t.Errorf("SummaryPath = %s", res.SummaryPath)
	}

	if len(res.Extra) != 1 || filepath.Ext(res.Extra[0]) != ".srt" {
		t.Fatalf("Extra = %v", res.Extra)
	}
	srt, _ := os.ReadFile(res.Extra[0])
	if !strings.Contains(string(srt), "spk_1: Hi.") {
		t.Errorf("subtitles = %q", srt)
	}

	if len(f.store.objects) != 0 {
		t.Errorf("remote objects left after cleanup: %v", f.store.deleted)
	}
	if len(f.tr.deleted) != 1 {
		t.Errorf("transcription job not deleted")
	}
}

func TestProcessDefaultTemplate(t *testing.T) {
	f := newFixture(t)
	f.cfg.AWS.Cleanup = false

	if _, err := f.proc.Process(context.Background(), f.media(t, "call.wav")); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	want, _ := prompt.Render(prompt.Default, "spk_0: Hello, world.\nspk_1: Hi.")
	if len(f.sum.prompts) != 1 || f.sum.prompts[0] != want {
		t.Errorf("prompt = %q", f.sum.prompts)
	}
	if len(f.store.deleted) != 0 || len(f.tr.deleted) != 0 {
		t.Error("remote cleanup ran while disabled")
	}
}

func TestProcessVideo(t *testing.T) {
	f := newFixture(t)
	f.cfg.Transcribe.MediaFormat = "wav"

	if _, err := f.proc.Process(context.Background(), f.media(t, "standup.mov")); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(f.exec.calls) != 1 || f.exec.calls[0][0] != "ffmpeg" {
		t.Fatalf("executor calls = %v", f.exec.calls)
	}
	extracted := filepath.Join(f.cfg.Paths.Temp, "standup.mp3")
	if got := f.exec.calls[0][len(f.exec.calls[0])-1]; got != extracted {
		t.Errorf("ffmpeg output = %s, want %s", got, extracted)
	}
	if f.tr.started[0].MediaURI != "s3://meetings/transcription-job-test/standup.mp3" {
		t.Errorf("MediaURI = %s", f.tr.started[0].MediaURI)
	}
	if f.tr.started[0].MediaFormat != "mp3" {
		t.Errorf("MediaFormat = %q, want mp3 for extracted audio", f.tr.started[0].MediaFormat)
	}
	if _, err := os.Stat(extracted); !os.IsNotExist(err) {
		t.Errorf("extracted audio not cleaned up: %v", err)
	}
}

func TestProcessConfiguredMediaFormat(t *testing.T) {
	f := newFixture(t)
	f.cfg.Transcribe.MediaFormat = "mp4"

	if _, err := f.proc.Process(context.Background(), f.media(t, "dialog.m4a")); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got := f.tr.started[0].MediaFormat; got != "mp4" {
		t.Errorf("MediaFormat = %q, want mp4", got)
	}
}

func TestProcessErrors(t *testing.T) {
	t.Run("job failure halts before summarizing", func(t *testing.T) {
		f := newFixture(t)
		f.tr.waitErr = fmt.Errorf("%w: bad audio", transcriber.ErrJobFailed)

		_, err := f.proc.Process(context.Background(), f.media(t, "dialog.mp3"))
		if !errors.Is(err, transcriber.ErrJobFailed) {
			t.Fatalf("Process() error = %v", err)
		}
		if len(f.sum.prompts) != 0 {
			t.Error("summarizer called after failed job")
		}
		if len(f.store.objects) != 0 {
			t.Errorf("uploaded media left in bucket: %v", f.store.objects)
		}
		if len(f.tr.deleted) != 1 {
			t.Error("failed transcription job not deleted")
		}
	})

	t.Run("unbound template key fails before upload", func(t *testing.T) {
		f := newFixture(t)
		tmplPath := filepath.Join(f.dir, "bad.txt")
		os.WriteFile(tmplPath, []byte("{{ speakers }} {{ transcript }}"), 0644)
		f.cfg.Paths.Template = tmplPath

		_, err := f.proc.Process(context.Background(), f.media(t, "dialog.mp3"))
		var tmplErr *prompt.TemplateError
		if !errors.As(err, &tmplErr) || tmplErr.Key != "speakers" {
			t.Fatalf("Process() error = %v, want TemplateError", err)
		}
		if len(f.store.objects) != 0 {
			t.Error("media uploaded despite invalid template")
		}
	})

	t.Run("unsupported media", func(t *testing.T) {
		f := newFixture(t)
		if _, err := f.proc.Process(context.Background(), f.media(t, "notes.txt")); err == nil {
			t.Fatal("Process() should reject unsupported files")
		}
	})

	t.Run("missing ffmpeg", func(t *testing.T) {
		f := newFixture(t)
		f.exec.available = false
		if _, err := f.proc.Process(context.Background(), f.media(t, "standup.mkv")); err == nil {
			t.Fatal("Process() should fail without ffmpeg")
		}
	})

	t.Run("malformed job output", func(t *testing.T) {
		f := newFixture(t)
		f.tr.output = `{"results": {"items": [{"type": "pronunciation", "alternatives": []}]}}`
		if _, err := f.proc.Process(context.Background(), f.media(t, "dialog.mp3")); err == nil {
			t.Fatal("Process() should fail on malformed output")
		}
	})
}

func TestIsSupported(t *testing.T) {
	tests := map[string]bool{
		"a.mp3":  true,
		"a.FLAC": true,
		"a.mov":  true,
		"a.mkv":  true,
		"a.txt":  false,
		"a":      false,
	}
	for path, want := range tests {
		if got := IsSupported(path); got != want {
			t.Errorf("IsSupported(%q) = %v, want %v", path, got, want)
		}
	}
}
