package websum

import "context"

// TokenCounter estimates how many model tokens a text uses.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
