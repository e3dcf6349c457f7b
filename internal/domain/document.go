package domain

// LegalDocument is one entry of the document repository. Its full Content is
// what gets sent to the model as context.
type LegalDocument struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// DocumentInput is a document before the repository assigns it an ID
type DocumentInput struct {
	Title   string `json:"title" validate:"required"`
	Summary string `json:"summary"`
	Content string `json:"content" validate:"required"`
}

// DocumentSummary is the listing shape of a document, without its body
type DocumentSummary struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Summarize drops the content of each document
func Summarize(docs []LegalDocument) []DocumentSummary {
	out := make([]DocumentSummary, len(docs))
	for i, d := range docs {
		out[i] = DocumentSummary{ID: d.ID, Title: d.Title, Summary: d.Summary}
	}
	return out
}
