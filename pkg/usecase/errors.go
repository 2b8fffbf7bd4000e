package usecase

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNoLLMClient is returned by flows that need generation when the
	// service was started without an LLM client
	ErrNoLLMClient = goerr.New("LLM client is not configured")

	// ErrEmptyResponse is returned when the model answers with no text
	ErrEmptyResponse = goerr.New("LLM returned an empty response")
)
