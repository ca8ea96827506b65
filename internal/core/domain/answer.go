package domain

// Answer is the outcome of a grounded question: the generated text,
// whether it is grounded in the retrieved context, and the retrieved
// entries it was generated from.
type Answer struct {
	// Text is the model output with the provider's trailing newline
	// stripped. No other normalisation is applied.
	Text string

	// Grounded is false if and only if Text equals the configured
	// refusal sentence byte for byte. Any other output, correct or
	// not, counts as grounded.
	Grounded bool

	// Sources are the retrieved entries whose text formed the prompt
	// context, in rank order.
	Sources []SearchResult
}
