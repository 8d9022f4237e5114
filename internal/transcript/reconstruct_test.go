package transcript

import (
	"errors"
	"strings"
	"testing"
)

func word(content, speaker string) Token {
	return Token{Content: content, Kind: KindPronunciation, Speaker: speaker}
}

func punct(content, speaker string) Token {
	return Token{Content: content, Kind: KindPunctuation, Speaker: speaker}
}

func TestReconstruct(t *testing.T) {
	tests := []struct {
		name   string
		tokens []Token
		want   string
	}{
		{
			name:   "empty",
			tokens: nil,
			want:   "",
		},
		{
			name: "single speaker with punctuation",
			tokens: []Token{
				word("Hello", "spk0"),
				punct(",", "spk0"),
				word("world", "spk0"),
				punct(".", "spk0"),
			},
			want: "spk0: Hello, world.",
		},
		{
			name: "speaker change",
			tokens: []Token{
				word("Hi", "spk_0"),
				punct(".", "spk_0"),
				word("Hello", "spk_1"),
				word("there", "spk_1"),
				punct("!", "spk_1"),
			},
			want: "spk_0: Hi.\nspk_1: Hello there!",
		},
		{
			name: "speaker returns",
			tokens: []Token{
				word("one", "a"),
				word("two", "b"),
				word("three", "a"),
			},
			want: "a: one\nb: two\na: three",
		},
		{
			name: "no diarization",
			tokens: []Token{
				word("just", ""),
				word("words", ""),
				punct("?", ""),
			},
			want: "just words?",
		},
		{
			name: "unlabeled tokens stay on current line",
			tokens: []Token{
				word("so", "spk_0"),
				punct(",", ""),
				word("yes", ""),
			},
			want: "spk_0: so, yes",
		},
		{
			name: "punctuation opening a speaker line keeps the prefix space",
			tokens: []Token{
				word("Quote", "spk_0"),
				punct("\"", "spk_1"),
				word("this", "spk_1"),
			},
			want: "spk_0: Quote\nspk_1: \" this",
		},
		{
			name: "leading punctuation without speaker",
			tokens: []Token{
				punct("...", ""),
				word("well", ""),
			},
			want: "... well",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reconstruct(tt.tokens)
			if err != nil {
				t.Fatalf("Reconstruct() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Reconstruct() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReconstructProperties(t *testing.T) {
	tokens := []Token{
		word("Okay", "spk_0"),
		punct(",", "spk_0"),
		word("let's", "spk_0"),
		word("start", "spk_0"),
		punct(".", "spk_0"),
		word("Sure", "spk_1"),
		punct(".", "spk_1"),
		word("Agenda", "spk_0"),
		punct("?", "spk_0"),
	}

	got, err := Reconstruct(tokens)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}

	if got != strings.TrimSpace(got) {
		t.Errorf("output has surrounding whitespace: %q", got)
	}
	for _, p := range []string{" ,", " .", " ?"} {
		if strings.Contains(got, p) {
			t.Errorf("output %q contains space before punctuation %q", got, p)
		}
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), got)
	}
	for i, prefix := range []string{"spk_0: ", "spk_1: ", "spk_0: "} {
		if !strings.HasPrefix(lines[i], prefix) {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], prefix)
		}
	}

	again, err := Reconstruct(tokens)
	if err != nil {
		t.Fatalf("Reconstruct() second run error = %v", err)
	}
	if again != got {
		t.Errorf("Reconstruct() not stable: %q then %q", got, again)
	}
}

func TestReconstructMalformed(t *testing.T) {
	tokens := []Token{
		word("fine", "spk_0"),
		{Kind: KindPronunciation, Speaker: "spk_0"},
	}

	_, err := Reconstruct(tokens)
	var malformed *MalformedTokenError
	if !errors.As(err, &malformed) {
		t.Fatalf("Reconstruct() error = %v, want *MalformedTokenError", err)
	}
	if malformed.Index != 1 {
		t.Errorf("Index = %d, want 1", malformed.Index)
	}
}

func TestLines(t *testing.T) {
	lines, err := Lines([]Token{
		word("Hi", "spk_0"),
		word("Bye", "spk_1"),
		punct(".", "spk_1"),
	})
	if err != nil {
		t.Fatalf("Lines() error = %v", err)
	}

	want := []Line{{Speaker: "spk_0", Text: "Hi"}, {Speaker: "spk_1", Text: "Bye."}}
	if len(lines) != len(want) {
		t.Fatalf("Lines() = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, lines[i], want[i])
		}
	}
}
