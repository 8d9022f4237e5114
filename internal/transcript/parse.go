package transcript

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// document mirrors the JSON file Amazon Transcribe writes to the output bucket.
type document struct {
	JobName string `json:"jobName"`
	Status  string `json:"status"`
	Results struct {
		Transcripts []struct {
			Transcript string `json:"transcript"`
		} `json:"transcripts"`
		SpeakerLabels *struct {
			Speakers int `json:"speakers"`
		} `json:"speaker_labels,omitempty"`
		Items []item `json:"items"`
	} `json:"results"`
}

type item struct {
	Type         string `json:"type"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	SpeakerLabel string `json:"speaker_label,omitempty"`
	Alternatives []struct {
		Confidence string `json:"confidence"`
		Content    string `json:"content"`
	} `json:"alternatives"`
}

// Parse decodes a transcription job output document into tokens, keeping
// item order.
func Parse(r io.Reader) (*Result, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}

	res := &Result{
		JobName: doc.JobName,
		Tokens:  make([]Token, 0, len(doc.Results.Items)),
	}
	if len(doc.Results.Transcripts) > 0 {
		res.Plain = doc.Results.Transcripts[0].Transcript
	}
	if doc.Results.SpeakerLabels != nil {
		res.Speakers = doc.Results.SpeakerLabels.Speakers
	}

	for i, it := range doc.Results.Items {
		if len(it.Alternatives) == 0 || it.Alternatives[0].Content == "" {
			return nil, &MalformedTokenError{Index: i, Reason: "no alternatives"}
		}

		tok := Token{
			Content: it.Alternatives[0].Content,
			Kind:    KindPronunciation,
			Speaker: it.SpeakerLabel,
		}
		if it.Type == string(KindPunctuation) {
			tok.Kind = KindPunctuation
		}

		if it.StartTime != "" && it.EndTime != "" {
			start, err := parseSeconds(it.StartTime)
			if err != nil {
				return nil, &MalformedTokenError{Index: i, Reason: err.Error()}
			}
			end, err := parseSeconds(it.EndTime)
			if err != nil {
				return nil, &MalformedTokenError{Index: i, Reason: err.Error()}
			}
			tok.Start, tok.End, tok.Timed = start, end, true
		}

		res.Tokens = append(res.Tokens, tok)
	}

	return res, nil
}

func parseSeconds(s string) (time.Duration, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return time.Duration(f * float64(time.Second)), nil
}
