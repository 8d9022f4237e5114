package transcript

import "time"

// Kind classifies a recognized unit of speech.
type Kind string

const (
	KindPronunciation Kind = "pronunciation"
	KindPunctuation   Kind = "punctuation"
)

// Token is one recognized word or punctuation mark.
type Token struct {
	Content string
	Kind    Kind
	// Speaker is empty when diarization was not enabled for the job.
	Speaker string

	// Punctuation tokens carry no timing.
	Start time.Duration
	End   time.Duration
	Timed bool
}

// Line is a contiguous run of tokens attributed to one speaker.
type Line struct {
	Speaker string
	Text    string
}

// String renders the line as "<speaker>: <text>", or just the text when
// the speaker is unknown.
func (l Line) String() string {
	if l.Speaker == "" {
		return l.Text
	}
	return l.Speaker + ": " + l.Text
}

// Result is the decoded output of a transcription job.
type Result struct {
	JobName  string
	Speakers int
	Tokens   []Token

	// Plain is the service's own undiarized transcript.
	Plain string
}
