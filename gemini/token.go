// Package gemini counts model tokens with the Gemini local tokenizer.
package gemini

import (
	"context"
	"sync"

	"github.com/fwojciec/websum"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// DefaultTokenModel is the model whose vocabulary is used for token counts.
const DefaultTokenModel = "gemini-2.0-flash"

var _ websum.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens offline with the Gemini tokenizer.
// It is safe for concurrent use.
type TokenCounter struct {
	mu  sync.Mutex
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a TokenCounter for the given model.
// An empty model selects DefaultTokenModel.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultTokenModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, websum.Errorf(websum.EINVALID, "loading tokenizer for %s: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens returns the number of tokens in text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if text == "" {
		return 0, nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, "user"),
	}

	tc.mu.Lock()
	result, err := tc.tok.CountTokens(contents, nil)
	tc.mu.Unlock()
	if err != nil {
		return 0, websum.Errorf(websum.EPROCESSING, "counting tokens: %v", err)
	}
	return int(result.TotalTokens), nil
}
