// Package yellow is a note-taking workspace client library. Notes are short
// markdown documents organized into draggable columns ("spaces"); the
// workspace model in pkg/workspace tracks the columns and keeps display order
// stable under insert, delete and cross-column moves.
//
// The Controller interface decouples a UI from its data source. Two
// implementations are provided: DemoController, an in-memory fixture-backed
// source for local development, and NetworkController, which speaks to a
// remote notes service over HTTP and converts remote failures into visible
// system notes so the workspace always stays renderable.
//
// Controllers publish their observable state through pkg/stream: a stream of
// column snapshots and a stream of the logged-in flag. Streams do not replay;
// after subscribing, call UpdateSubscribers once to receive the current
// snapshot.
package yellow
