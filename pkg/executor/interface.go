package executor

import "context"

// Executor runs external tools such as ffmpeg.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	// Available reports whether name resolves to an executable.
	Available(name string) bool
}
