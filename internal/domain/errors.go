package domain

import "errors"

var (
	// ErrCacheUnavailable signals an unreachable answer cache. Callers treat it as a miss.
	ErrCacheUnavailable = errors.New("answer cache unavailable")
	// ErrSearchUnavailable signals a web search failure (network, auth, rate limit).
	ErrSearchUnavailable = errors.New("web search unavailable")
	// ErrIndexUnavailable signals an unreachable passage index.
	ErrIndexUnavailable = errors.New("passage index unavailable")
	// ErrDecomposition signals model output that violates the sub-question contract.
	ErrDecomposition = errors.New("query decomposition failed")
	// ErrEmptySynthesis signals a whitespace-only synthesis response.
	ErrEmptySynthesis = errors.New("empty synthesis")
	// ErrSynthesisUnavailable signals a synthesis provider failure.
	ErrSynthesisUnavailable = errors.New("synthesis unavailable")
	// ErrLLMProviderError signals a completion provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
)
