package domain

// Passage is one unit of content returned by the similarity retriever.
// Passages are request-scoped; nothing in the pipeline persists them.
type Passage struct {
	Content  string
	Score    float64
	Metadata map[string]string
}

// SearchBundle is the web search response for exactly one sub-question.
// Raw holds the provider's JSON body untouched; the pipeline passes it
// through to synthesis without interpreting its structure.
type SearchBundle struct {
	Query string
	Raw   []byte
}

// Empty reports whether the bundle carries no payload (failed or skipped search).
func (b SearchBundle) Empty() bool {
	return len(b.Raw) == 0
}

// EmptyBundle returns the placeholder substituted when search fails for a sub-question.
func EmptyBundle(query string) SearchBundle {
	return SearchBundle{Query: query}
}

// Retrieved pairs one sub-question's search bundle with its similar passages.
type Retrieved struct {
	SubQuestion string
	Search      SearchBundle
	Passages    []Passage
}
