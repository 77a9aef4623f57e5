package memory

import "fmt"

// PreviewLength is the number of characters of a document shown in a collapsed label.
const PreviewLength = 50

// Memory is a stored text item owned by the remote service.
type Memory struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// SearchResult holds the snippets returned for a query, in relevance order.
type SearchResult struct {
	Context []string `json:"context"`
}

// Listing is the full set of stored memories as two parallel sequences.
type Listing struct {
	Documents []string `json:"documents"`
	IDs       []string `json:"ids"`
}

// Consistent reports whether documents and ids have the same length.
func (l Listing) Consistent() bool {
	return len(l.Documents) == len(l.IDs)
}

// Memories zips documents and ids by position. When the sequences disagree in
// length only the pairs up to the shorter one are returned.
func (l Listing) Memories() []Memory {
	n := len(l.Documents)
	if len(l.IDs) < n {
		n = len(l.IDs)
	}
	out := make([]Memory, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Memory{ID: l.IDs[i], Text: l.Documents[i]})
	}
	return out
}

// Preview returns the first PreviewLength characters of text followed by an ellipsis.
func Preview(text string) string {
	r := []rune(text)
	if len(r) > PreviewLength {
		r = r[:PreviewLength]
	}
	return string(r) + "..."
}

// Label is the collapsed title of the memory at 1-based position n.
func Label(n int, m Memory) string {
	return fmt.Sprintf("Memory %d: %s", n, Preview(m.Text))
}
