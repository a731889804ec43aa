// File: internal/session/collaborators.go
package session

import "context"

// CompletionProvider asks the tutoring model a subject-scoped question and
// returns the raw reply text. A non-success status is an error.
type CompletionProvider interface {
	Ask(ctx context.Context, question, subject string) (string, error)
}

// ImageProvider renders an illustrative image for a prompt and returns an
// image reference (URL or data URL).
type ImageProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AuthProvider exposes the current user identity. ok=false means no user is
// signed in; the manager treats that as fully-functional local-only mode,
// not an error.
type AuthProvider interface {
	CurrentUser(ctx context.Context) (userID uint, ok bool)
}
