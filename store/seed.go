package store

// seedDocuments is the fixed collection every seeded store starts with.
var seedDocuments = map[string]string{
	"deposition.md":   "This deposition covers the testimony of Angela Smith, P.E.",
	"report.pdf":      "The report details the state of a 20m condenser tower.",
	"financials.docx": "These financials outline the project's budget and expenditures.",
	"outlook.pdf":     "This document presents the projected future performance of the system.",
	"plan.md":         "The plan outlines the steps for the project's implementation.",
	"spec.txt":        "These specifications define the technical requirements for the equipment.",
}

// Seed returns a copy of the startup document collection.
func Seed() map[string]string {
	out := make(map[string]string, len(seedDocuments))
	for id, content := range seedDocuments {
		out[id] = content
	}
	return out
}

// NewSeeded creates a Store holding the six startup documents.
func NewSeeded() *Store {
	return New(seedDocuments)
}
