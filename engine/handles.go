package engine

import (
	"sync"

	"github.com/google/uuid"

	"github.com/hedl-lang/hedl/document"
)

// handles maps opaque identity tokens to live engine artifacts. The FFI
// layer registers each document under its identity token and passes the
// token across the boundary instead of a raw pointer; lookups on released
// or foreign tokens simply miss, so no freed memory is ever dereferenced.
var handles = struct {
	mu    sync.Mutex
	docs  map[uuid.UUID]*document.Document
	diags map[uuid.UUID]*Diagnostics
}{
	docs:  make(map[uuid.UUID]*document.Document),
	diags: make(map[uuid.UUID]*Diagnostics),
}

// RegisterDocument enters doc into the handle table under its identity
// token and returns the token.
func RegisterDocument(doc *document.Document) uuid.UUID {
	id := doc.ID()
	handles.mu.Lock()
	handles.docs[id] = doc
	handles.mu.Unlock()
	return id
}

// LookupDocument resolves a token to a registered document
func LookupDocument(id uuid.UUID) (*document.Document, bool) {
	handles.mu.Lock()
	doc, ok := handles.docs[id]
	handles.mu.Unlock()
	return doc, ok
}

// ReleaseDocument removes a token from the table. Releasing an unknown or
// already-released token is a no-op.
func ReleaseDocument(id uuid.UUID) {
	handles.mu.Lock()
	delete(handles.docs, id)
	handles.mu.Unlock()
}

// RegisterDiagnostics enters d into the handle table and returns its token
func RegisterDiagnostics(d *Diagnostics) uuid.UUID {
	handles.mu.Lock()
	handles.diags[d.id] = d
	handles.mu.Unlock()
	return d.id
}

// LookupDiagnostics resolves a token to a registered diagnostics handle
func LookupDiagnostics(id uuid.UUID) (*Diagnostics, bool) {
	handles.mu.Lock()
	d, ok := handles.diags[id]
	handles.mu.Unlock()
	return d, ok
}

// ReleaseDiagnostics removes a token from the table
func ReleaseDiagnostics(id uuid.UUID) {
	handles.mu.Lock()
	delete(handles.diags, id)
	handles.mu.Unlock()
}
