// Package updatebook implements the Update Book use case: a librarian edits a catalog entry and
// optionally replaces its cover image.
//
// Every field is required in the request. A field only replaces the stored value when it is
// non-empty, so clients that echo the current values leave them untouched. The previous image
// stays in asset storage.
package updatebook
