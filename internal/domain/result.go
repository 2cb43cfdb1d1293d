package domain

// FallbackAnswer is the fixed text returned when the pipeline produces no answer.
const FallbackAnswer = "No results found."

// Outcome is the terminal state of one pipeline run.
type Outcome string

const (
	// OutcomeAnswered carries a cached or freshly synthesized answer.
	OutcomeAnswered Outcome = "answered"
	// OutcomeNoResult means the pipeline completed without an answer.
	OutcomeNoResult Outcome = "no_result"
	// OutcomeFailed means a pipeline stage failed terminally.
	OutcomeFailed Outcome = "failed"
)

// Result is the tagged terminal output of Process. Exactly one outcome is set;
// callers switch on Outcome() instead of probing fields.
type Result struct {
	outcome Outcome
	answer  string
	meta    map[string]string
	reason  error
}

// Answered builds a successful result. meta may be nil.
func Answered(answer string, meta map[string]string) Result {
	return Result{outcome: OutcomeAnswered, answer: answer, meta: meta}
}

// NoResult builds a completed-without-answer result. reason is kept for
// logging only and never shown to the caller.
func NoResult(reason error) Result {
	return Result{outcome: OutcomeNoResult, reason: reason}
}

// Failed builds a terminal failure result.
func Failed(reason error) Result {
	return Result{outcome: OutcomeFailed, reason: reason}
}

// Outcome returns the result tag.
func (r Result) Outcome() Outcome { return r.outcome }

// Answer returns the answer text for OutcomeAnswered, and the fixed
// fallback text for OutcomeNoResult.
func (r Result) Answer() string {
	if r.outcome == OutcomeNoResult {
		return FallbackAnswer
	}
	return r.answer
}

// Meta returns optional answer metadata (e.g. answer source).
func (r Result) Meta() map[string]string { return r.meta }

// Reason returns the terminal error for OutcomeFailed and OutcomeNoResult, else nil.
func (r Result) Reason() error { return r.reason }
