package token

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts with a fixed subword encoding. The same
// encoding is used for every model, so the result is an estimate, not the
// authoritative count for any particular model family.
type Counter struct {
	enc *tiktoken.Tiktoken
}

func New(encoding string) (*Counter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", encoding, err)
	}
	return &Counter{enc: enc}, nil
}

func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}
