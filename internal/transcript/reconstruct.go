package transcript

import "strings"

// Reconstruct renders tokens as a speaker-attributed transcript, one line
// per speaker turn. Punctuation attaches to the preceding word. An empty
// sequence yields "".
func Reconstruct(tokens []Token) (string, error) {
	lines, err := Lines(tokens)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.String())
	}
	return strings.TrimSpace(b.String()), nil
}

// Lines groups tokens into speaker turns. A new line starts whenever a
// token carries a speaker label different from the active one; tokens
// without a label stay on the current line.
//
// Punctuation opening a line is placed right after the "<speaker>: "
// prefix, the prefix keeps its space.
func Lines(tokens []Token) ([]Line, error) {
	var (
		lines   []Line
		current string
		text    strings.Builder
		open    bool
	)

	flush := func() {
		if open {
			lines = append(lines, Line{Speaker: current, Text: text.String()})
		}
		text.Reset()
	}

	for i, tok := range tokens {
		if strings.TrimSpace(tok.Content) == "" {
			return nil, &MalformedTokenError{Index: i, Reason: "empty content"}
		}

		if tok.Speaker != "" && tok.Speaker != current {
			flush()
			current = tok.Speaker
		}
		open = true

		if tok.Kind != KindPunctuation && text.Len() > 0 {
			text.WriteByte(' ')
		}
		text.WriteString(strings.TrimSpace(tok.Content))
	}
	flush()

	return lines, nil
}
