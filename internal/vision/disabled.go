package vision

import (
	"context"
	"errors"
)

var ErrNotConfigured = errors.New("image analysis not configured")

// DisabledClient fails every request; it stands in when no model credentials are set
type DisabledClient struct{}

func (DisabledClient) Name() string {
	return "disabled"
}

func (DisabledClient) Generate(ctx context.Context, req Request) (string, error) {
	return "", ErrNotConfigured
}
