package vision

import (
	"context"
	"errors"
)

// Request is one multimodal generation call: a prompt plus an inline image
type Request struct {
	MimeType string
	Data     string // base64 payload, without the data URI prefix
	Prompt   string
	JSON     bool // ask the model for a JSON object instead of free text
}

// Client generates text from an image and prompt
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

var (
	ErrNoCandidates = errors.New("no candidates in response")
	ErrNoTextPart   = errors.New("no text part in response")
)
