package transcript

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// DefaultCueChars keeps a cue within two 42-character subtitle rows.
const DefaultCueChars = 84

// Cue is one timed subtitle entry.
type Cue struct {
	Start   time.Duration
	End     time.Duration
	Speaker string
	Text    string
}

// Subtitles groups timed tokens into cues. A cue closes on a speaker
// change, after sentence-ending punctuation, or before a word that would
// push it past maxChars.
func Subtitles(tokens []Token, maxChars int) ([]Cue, error) {
	if maxChars <= 0 {
		maxChars = DefaultCueChars
	}

	var (
		cues    []Cue
		cur     *Cue
		speaker string
		stamped bool
	)

	closeCue := func() {
		if cur != nil {
			cues = append(cues, *cur)
			cur = nil
			stamped = false
		}
	}

	for i, tok := range tokens {
		content := strings.TrimSpace(tok.Content)
		if content == "" {
			return nil, &MalformedTokenError{Index: i, Reason: "empty content"}
		}

		if tok.Speaker != "" && tok.Speaker != speaker {
			closeCue()
			speaker = tok.Speaker
		}

		if tok.Kind == KindPunctuation {
			switch {
			case cur != nil:
				cur.Text += content
			case len(cues) > 0 && cues[len(cues)-1].Speaker == speaker:
				cues[len(cues)-1].Text += content
			default:
				// Opens the new speaker's cue; the next timed word stamps it.
				cur = &Cue{Speaker: speaker, Text: content}
			}
			if isSentenceEnd(content) {
				closeCue()
			}
			continue
		}

		if cur != nil && len(cur.Text)+1+len(content) > maxChars {
			closeCue()
		}
		if cur == nil {
			cur = &Cue{Speaker: speaker, Text: content}
		} else {
			cur.Text += " " + content
		}
		if tok.Timed {
			if !stamped {
				cur.Start = tok.Start
				stamped = true
			}
			cur.End = tok.End
		}
	}
	closeCue()

	return cues, nil
}

// WriteSRT writes cues in SubRip format, numbering from 1.
func WriteSRT(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)
	for i, c := range cues {
		text := c.Text
		if c.Speaker != "" {
			text = c.Speaker + ": " + text
		}
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n", i+1, srtTime(c.Start), srtTime(c.End), text); err != nil {
			return fmt.Errorf("write cue %d: %w", i+1, err)
		}
	}
	return bw.Flush()
}

func srtTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func isSentenceEnd(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "?") || strings.HasSuffix(s, "!")
}
