package llm

import "context"

// Completer sends a prompt and a text payload to a hosted chat model.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request captures a single completion call.
type Request struct {
	Prompt    string
	Text      string
	Model     string
	MaxTokens int
}

// Message builds the single user message sent to the model: the prompt, a
// blank line, then the text.
func Message(prompt, text string) string {
	return prompt + "\n\n" + text
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
