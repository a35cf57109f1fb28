package data

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tldread/tldr-bot/internal/biz/repo"
)

// geminiRepo implements the Generator repository against the Gemini
// OpenAI-compatible endpoint.
type geminiRepo struct {
	client *openai.Client
	model  string
}

// NewGeminiRepo creates a Generator repository. baseURL selects the
// OpenAI-compatible endpoint; empty means the library default.
func NewGeminiRepo(apiKey, model, baseURL string) repo.GeneratorRepo {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &geminiRepo{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Generate opens a streaming completion for the prompt
func (r *geminiRepo) Generate(ctx context.Context, prompt string) (repo.SummaryStream, error) {
	stream, err := r.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Stream: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create completion stream: %w", err)
	}
	return &geminiStream{stream: stream}, nil
}

// geminiStream adapts the library stream to repo.SummaryStream
type geminiStream struct {
	stream *openai.ChatCompletionStream
}

// Recv returns the next text fragment, io.EOF on stream end
func (s *geminiStream) Recv() (string, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

// Close releases the underlying connection
func (s *geminiStream) Close() error {
	return s.stream.Close()
}
