package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iwvelando/repair-reserve/internal/chat"
)

const systemPrompt = `You look up Korean apartment complexes. Answer with a single JSON object and nothing else:
{"totalArea": <total supply area of the whole complex in square meters, 0 if unknown>,
 "householdArea": <most common household supply area in square meters, 0 if unknown>,
 "found": <true if the complex was identified>,
 "sources": [{"title": "<page title>", "uri": "<url>"}]}`

// Completer is the part of the chat client a ChatLookup needs.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ChatLookup asks a chat model for the areas of a complex.
type ChatLookup struct {
	client Completer
}

// NewChatLookup creates a ChatLookup backed by client.
func NewChatLookup(client Completer) *ChatLookup {
	return &ChatLookup{client: client}
}

// Lookup implements Lookup.
func (c *ChatLookup) Lookup(ctx context.Context, name string) (Result, error) {
	if c.client == nil {
		return Result{}, chat.ErrDisabled
	}
	answer, err := c.client.Complete(ctx, systemPrompt, fmt.Sprintf("Apartment complex name: %s", name))
	if err != nil {
		return Result{}, err
	}
	return ParseAnswer(answer)
}

// ParseAnswer extracts the JSON object from a model answer, tolerating code
// fences and surrounding prose.
func ParseAnswer(answer string) (Result, error) {
	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start < 0 || end < start {
		return Result{}, fmt.Errorf("no JSON object in lookup answer")
	}

	var res Result
	if err := json.Unmarshal([]byte(answer[start:end+1]), &res); err != nil {
		return Result{}, fmt.Errorf("failed to parse lookup answer: %w", err)
	}
	return res, nil
}
