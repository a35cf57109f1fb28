package usecase

// PromptBuilder builds generation prompts from raw message text
type PromptBuilder struct {
	template string
}

// NewPromptBuilder creates a prompt builder with the given instruction
// template. The template carries the language-mirroring instruction and
// the output-format contract.
func NewPromptBuilder(template string) *PromptBuilder {
	return &PromptBuilder{template: template}
}

// Build returns the complete prompt: the template with the raw text
// appended verbatim. The text is not escaped or sanitized.
func (b *PromptBuilder) Build(text string) string {
	return b.template + text
}
