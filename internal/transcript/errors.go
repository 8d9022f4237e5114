package transcript

import "fmt"

// MalformedTokenError reports a token without content.
type MalformedTokenError struct {
	Index  int
	Reason string
}

func (e *MalformedTokenError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("transcript: malformed token at index %d", e.Index)
	}
	return fmt.Sprintf("transcript: malformed token at index %d: %s", e.Index, e.Reason)
}
