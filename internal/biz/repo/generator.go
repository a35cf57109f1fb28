package repo

import "context"

// SummaryStream is an ordered, finite sequence of text fragments from
// one generation request. It is not restartable; a fresh request must
// be opened to regenerate.
type SummaryStream interface {
	// Recv returns the next text fragment. It returns io.EOF when the
	// stream is complete and any other error on transport failure.
	Recv() (string, error)

	// Close releases the underlying connection
	Close() error
}

// GeneratorRepo is the generative-language collaborator boundary
type GeneratorRepo interface {
	// Generate opens a streaming generation request for the prompt
	Generate(ctx context.Context, prompt string) (SummaryStream, error)
}
