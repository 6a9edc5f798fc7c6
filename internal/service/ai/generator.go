package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// Generator is the single opaque text-generation dependency of the decision
// logic. Implementations wrap their own transport; callers wrap timeout,
// retry, and fallback around every call site.
type Generator interface {
	Generate(ctx context.Context, system, query string) (string, error)
}

// Streamer is implemented by generators that can stream chunks, used by the
// SSE report endpoint. Optional: callers must degrade to Generate.
type Streamer interface {
	Stream(ctx context.Context, system, query string) (*schema.StreamReader[*schema.Message], error)
}

// ChainGenerator runs generation through a compiled eino chain
// (prompt template -> chat model).
type ChainGenerator struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewChainGenerator compiles the chain for the supplied chat model.
func NewChainGenerator(ctx context.Context, chatModel model.ChatModel) (*ChainGenerator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	return &ChainGenerator{chain: runnable}, nil
}

// Generate invokes the chain and returns the raw model text.
func (g *ChainGenerator) Generate(ctx context.Context, system, query string) (string, error) {
	msg, err := g.chain.Invoke(ctx, map[string]any{"system": system, "query": query})
	if err != nil {
		return "", fmt.Errorf("generation chain invoke failed: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("generation chain returned empty content")
	}
	return msg.Content, nil
}

// Stream returns a chunk reader over the model output.
func (g *ChainGenerator) Stream(ctx context.Context, system, query string) (*schema.StreamReader[*schema.Message], error) {
	stream, err := g.chain.Stream(ctx, map[string]any{"system": system, "query": query})
	if err != nil {
		return nil, fmt.Errorf("generation chain stream failed: %w", err)
	}
	return stream, nil
}

// ExtractJSON trims a model response down to its outermost JSON object.
// Models habitually wrap JSON in prose or code fences.
func ExtractJSON(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("missing json object in model output")
	}
	return trimmed[start : end+1], nil
}

// Attempt runs primary and, on any error, logs and returns fallback's value.
// This is the one fallback path shared by the question generator, the triage
// engine, and the messaging generator; none of them surface generation
// failures to callers.
func Attempt[T any](component string, primary func() (T, error), fallback func() T) T {
	result, err := primary()
	if err != nil {
		log.Printf("[%s] generation failed, using deterministic fallback: %v", component, err)
		return fallback()
	}
	return result
}
