package query

import (
	"context"
	"errors"
)

const genericErrorMessage = "Something went wrong, please try again"

// MutationOptions describe what a write expires and what to say when it fails.
type MutationOptions struct {
	Invalidate   []string
	ErrorMessage string
}

// MutationError is a failed write, carrying the text to show the admin.
type MutationError struct {
	Message string
	Err     error
}

func (e *MutationError) Error() string {
	return e.Message + ": " + e.Err.Error()
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

type userMessenger interface {
	UserMessage() string
}

// UserMessage prefers the message the backend sent and falls back to
// fallback, then to a generic text.
func UserMessage(err error, fallback string) string {
	var m userMessenger
	if errors.As(err, &m) && m.UserMessage() != "" {
		return m.UserMessage()
	}
	if fallback != "" {
		return fallback
	}
	return genericErrorMessage
}

// Mutate runs fn and, only when it succeeds, invalidates opts.Invalidate.
// A failed write leaves the cache untouched.
func (c *Client) Mutate(ctx context.Context, opts MutationOptions, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return &MutationError{Message: UserMessage(err, opts.ErrorMessage), Err: err}
	}
	if err := c.Invalidate(ctx, opts.Invalidate...); err != nil {
		c.logger.WithError(err).WithField("roots", opts.Invalidate).Error("Failed to invalidate cache after write")
	}
	return nil
}
