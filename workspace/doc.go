// Package workspace implements the collaboration tools assistants use to
// work with mail, documents, spreadsheets, tasks and web search. Every
// concern is expressed as a small service interface with an in-memory
// implementation, so assistants can run fully offline in tests and examples
// while production wires the Google-backed adapters.
package workspace
