package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tldread/tldr-bot/internal/biz/repo"
)

// ErrEmptySummary is returned when the generator streams to completion
// but produces no usable text.
var ErrEmptySummary = errors.New("generator produced an empty summary")

// SummarizeUsecase turns a prompt into cleaned display text by
// consuming one streaming generation call.
type SummarizeUsecase struct {
	generator repo.GeneratorRepo
	timeout   time.Duration
}

// NewSummarizeUsecase creates a summarize usecase. A zero timeout
// disables the deadline on the streaming call.
func NewSummarizeUsecase(generator repo.GeneratorRepo, timeout time.Duration) *SummarizeUsecase {
	return &SummarizeUsecase{
		generator: generator,
		timeout:   timeout,
	}
}

// Summarize opens a generation stream for the prompt, accumulates the
// chunks strictly in arrival order and returns the cleaned result.
// Transport errors, deadline expiry and empty output are all generation
// failures; no retry happens at this layer.
func (uc *SummarizeUsecase) Summarize(ctx context.Context, prompt string) (string, error) {
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	stream, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("open generation stream: %w", err)
	}
	defer stream.Close()

	var acc strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read generation stream: %w", err)
		}
		acc.WriteString(chunk)
	}

	summary := CleanSummary(acc.String())
	if summary == "" {
		return "", ErrEmptySummary
	}
	return summary, nil
}

// CleanSummary strips the markdown bullet-marker artifact the model
// emits inconsistently and trims surrounding whitespace. Idempotent.
func CleanSummary(s string) string {
	s = stripBulletArtifacts(s)
	return strings.TrimSpace(s)
}

// stripBulletArtifacts removes every literal "* " sequence. A single
// ReplaceAll can splice a new "* " out of its neighbors, so it loops
// to a fixpoint.
func stripBulletArtifacts(s string) string {
	for strings.Contains(s, "* ") {
		s = strings.ReplaceAll(s, "* ", "")
	}
	return s
}
