// Package main builds the C-callable HEDL library:
//
//	go build -buildmode=c-shared -o libhedl.so ./ffi
//
// The exported surface mirrors hedl.h. A handle is a heap copy of the
// artifact's identity token, resolved through the engine's handle table;
// a released handle fails lookup and returns HEDL_ERR_NULL_PTR without
// dereferencing anything. Every artifact crossing the boundary is
// released through its paired hedl_free_* function. The last-error slot
// lives in C thread-local storage so one thread's failure is never
// observed by another.
package main

/*
#include <stdlib.h>

#include "hedl_support.h"
*/
import "C"

import (
	"unsafe"

	"github.com/google/uuid"

	"github.com/hedl-lang/hedl/document"
	"github.com/hedl-lang/hedl/emit/csvout"
	"github.com/hedl-lang/hedl/emit/cypherout"
	"github.com/hedl-lang/hedl/emit/jsonout"
	"github.com/hedl-lang/hedl/emit/xmlout"
	"github.com/hedl-lang/hedl/emit/yamlout"
	"github.com/hedl-lang/hedl/engine"
)

// callbackChunk bounds how much data one callback invocation carries.
// Chunk boundaries carry no semantic meaning.
const callbackChunk = 64 * 1024

func main() {}

// setLastError stores msg in the calling thread's error slot
func setLastError(msg string) {
	cs := C.CString(msg)
	C.hedl_tls_error_set(cs)
	C.free(unsafe.Pointer(cs))
}

// clearLastError empties the calling thread's error slot
func clearLastError() {
	C.hedl_clear_error_threadsafe()
}

// fail records err and returns its status code
func fail(err error) C.int {
	setLastError(err.Error())
	return C.int(engine.StatusOf(err))
}

// inputBytes copies the caller's buffer. A length of -1 means
// null-terminated.
func inputBytes(input *C.char, inputLen C.int) []byte {
	if inputLen < 0 {
		return []byte(C.GoString(input))
	}
	return C.GoBytes(unsafe.Pointer(input), inputLen)
}

// handleFor hands an identity token to the caller as a malloc'd opaque
// pointer. The paired hedl_free_* call releases both the table entry and
// this allocation.
func handleFor(id uuid.UUID) unsafe.Pointer {
	buf := C.malloc(C.size_t(len(id)))
	copy(unsafe.Slice((*byte)(buf), len(id)), id[:])
	return buf
}

// idFrom reads the identity token behind an opaque handle
func idFrom(p unsafe.Pointer) uuid.UUID {
	var id uuid.UUID
	copy(id[:], unsafe.Slice((*byte)(p), len(id)))
	return id
}

// docFrom resolves an opaque handle through the engine's handle table.
// Null, released, and foreign handles yield ok == false.
func docFrom(p unsafe.Pointer) (*document.Document, bool) {
	if p == nil {
		return nil, false
	}
	return engine.LookupDocument(idFrom(p))
}

// diagFrom resolves a diagnostics handle through the handle table
func diagFrom(p unsafe.Pointer) (*engine.Diagnostics, bool) {
	if p == nil {
		return nil, false
	}
	return engine.LookupDiagnostics(idFrom(p))
}

func nullArgument(what string) C.int {
	setLastError(what + " is null or released")
	return C.int(engine.NullArgument)
}

// outString hands s to the caller as a malloc'd C string
func outString(s string, out **C.char) {
	*out = C.CString(s)
}

// streamOut pushes s through the caller's callback in chunks. The pointer
// handed to the callback is valid only during the call.
func streamOut(s string, cb C.hedl_output_callback, userData unsafe.Pointer) {
	buf := C.CString(s)
	defer C.free(unsafe.Pointer(buf))
	total := len(s)
	for off := 0; off < total; off += callbackChunk {
		n := total - off
		if n > callbackChunk {
			n = callbackChunk
		}
		p := unsafe.Pointer(uintptr(unsafe.Pointer(buf)) + uintptr(off))
		C.hedl_invoke_callback(cb, (*C.char)(p), C.size_t(n), userData)
	}
	if total == 0 {
		C.hedl_invoke_callback(cb, buf, 0, userData)
	}
}

//export hedl_parse
func hedl_parse(input *C.char, inputLen C.int, strict C.int, outDoc *unsafe.Pointer) C.int {
	if input == nil || outDoc == nil {
		return nullArgument("argument")
	}
	doc, err := engine.ParseDocument(inputBytes(input, inputLen), strict != 0)
	if err != nil {
		return fail(err)
	}
	clearLastError()
	*outDoc = handleFor(engine.RegisterDocument(doc))
	return C.int(engine.OK)
}

//export hedl_validate
func hedl_validate(input *C.char, inputLen C.int, strict C.int) C.int {
	if input == nil {
		return nullArgument("input")
	}
	if err := engine.Validate(inputBytes(input, inputLen), strict != 0); err != nil {
		return fail(err)
	}
	clearLastError()
	return C.int(engine.OK)
}

//export hedl_free_document
func hedl_free_document(doc unsafe.Pointer) {
	if doc == nil {
		return
	}
	engine.ReleaseDocument(idFrom(doc))
	C.free(doc)
}

//export hedl_free_diagnostics
func hedl_free_diagnostics(diag unsafe.Pointer) {
	if diag == nil {
		return
	}
	engine.ReleaseDiagnostics(idFrom(diag))
	C.free(diag)
}

//export hedl_get_version
func hedl_get_version(doc unsafe.Pointer, major, minor *C.int) C.int {
	d, ok := docFrom(doc)
	if !ok || major == nil || minor == nil {
		return nullArgument("document")
	}
	ma, mi := d.Version()
	*major = C.int(ma)
	*minor = C.int(mi)
	clearLastError()
	return C.int(engine.OK)
}

//export hedl_schema_count
func hedl_schema_count(doc unsafe.Pointer) C.int {
	d, ok := docFrom(doc)
	if !ok {
		nullArgument("document")
		return -1
	}
	clearLastError()
	return C.int(d.SchemaCount())
}

//export hedl_alias_count
func hedl_alias_count(doc unsafe.Pointer) C.int {
	d, ok := docFrom(doc)
	if !ok {
		nullArgument("document")
		return -1
	}
	clearLastError()
	return C.int(d.AliasCount())
}

//export hedl_root_item_count
func hedl_root_item_count(doc unsafe.Pointer) C.int {
	d, ok := docFrom(doc)
	if !ok {
		nullArgument("document")
		return -1
	}
	clearLastError()
	return C.int(d.RootCount())
}

//export hedl_canonicalize
func hedl_canonicalize(doc unsafe.Pointer, outStr **C.char) C.int {
	d, ok := docFrom(doc)
	if !ok || outStr == nil {
		return nullArgument("document")
	}
	text, err := engine.CanonicalizeDocument(d)
	if err != nil {
		return fail(err)
	}
	clearLastError()
	outString(text, outStr)
	return C.int(engine.OK)
}

//export hedl_canonicalize_callback
func hedl_canonicalize_callback(doc unsafe.Pointer, cb C.hedl_output_callback, userData unsafe.Pointer) C.int {
	d, ok := docFrom(doc)
	if !ok || cb == nil {
		return nullArgument("document")
	}
	text, err := engine.CanonicalizeDocument(d)
	if err != nil {
		return fail(err)
	}
	clearLastError()
	streamOut(text, cb, userData)
	return C.int(engine.OK)
}

//export hedl_to_json
func hedl_to_json(doc unsafe.Pointer, includeMetadata C.int, outStr **C.char) C.int {
	d, ok := docFrom(doc)
	if !ok || outStr == nil {
		return nullArgument("document")
	}
	text, err := jsonout.Emit(d, includeMetadata != 0)
	if err != nil {
		setLastError(err.Error())
		return C.int(engine.EmitJSON)
	}
	clearLastError()
	outString(text, outStr)
	return C.int(engine.OK)
}

//export hedl_to_json_callback
func hedl_to_json_callback(doc unsafe.Pointer, includeMetadata C.int, cb C.hedl_output_callback, userData unsafe.Pointer) C.int {
	d, ok := docFrom(doc)
	if !ok || cb == nil {
		return nullArgument("document")
	}
	text, err := jsonout.Emit(d, includeMetadata != 0)
	if err != nil {
		setLastError(err.Error())
		return C.int(engine.EmitJSON)
	}
	clearLastError()
	streamOut(text, cb, userData)
	return C.int(engine.OK)
}

//export hedl_to_yaml
func hedl_to_yaml(doc unsafe.Pointer, includeMetadata C.int, outStr **C.char) C.int {
	d, ok := docFrom(doc)
	if !ok || outStr == nil {
		return nullArgument("document")
	}
	text, err := yamlout.Emit(d, includeMetadata != 0)
	if err != nil {
		setLastError(err.Error())
		return C.int(engine.EmitYAML)
	}
	clearLastError()
	outString(text, outStr)
	return C.int(engine.OK)
}

//export hedl_to_yaml_callback
func hedl_to_yaml_callback(doc unsafe.Pointer, includeMetadata C.int, cb C.hedl_output_callback, userData unsafe.Pointer) C.int {
	d, ok := docFrom(doc)
	if !ok || cb == nil {
		return nullArgument("document")
	}
	text, err := yamlout.Emit(d, includeMetadata != 0)
	if err != nil {
		setLastError(err.Error())
		return C.int(engine.EmitYAML)
	}
	clearLastError()
	streamOut(text, cb, userData)
	return C.int(engine.OK)
}

//export hedl_to_xml
func hedl_to_xml(doc unsafe.Pointer, outStr **C.char) C.int {
	d, ok := docFrom(doc)
	if !ok || outStr == nil {
		return nullArgument("document")
	}
	text, err := xmlout.Emit(d)
	if err != nil {
		setLastError(err.Error())
		return C.int(engine.EmitXML)
	}
	clearLastError()
	outString(text, outStr)
	return C.int(engine.OK)
}

//export hedl_to_xml_callback
func hedl_to_xml_callback(doc unsafe.Pointer, cb C.hedl_output_callback, userData unsafe.Pointer) C.int {
	d, ok := docFrom(doc)
	if !ok || cb == nil {
		return nullArgument("document")
	}
	text, err := xmlout.Emit(d)
	if err != nil {
		setLastError(err.Error())
		return C.int(engine.EmitXML)
	}
	clearLastError()
	streamOut(text, cb, userData)
	return C.int(engine.OK)
}

//export hedl_to_csv
func hedl_to_csv(doc unsafe.Pointer, outStr **C.char) C.int {
	d, ok := docFrom(doc)
	if !ok || outStr == nil {
		return nullArgument("document")
	}
	text, err := csvout.Emit(d)
	if err != nil {
		setLastError(err.Error())
		return C.int(engine.EmitCSV)
	}
	clearLastError()
	outString(text, outStr)
	return C.int(engine.OK)
}

//export hedl_to_csv_callback
func hedl_to_csv_callback(doc unsafe.Pointer, cb C.hedl_output_callback, userData unsafe.Pointer) C.int {
	d, ok := docFrom(doc)
	if !ok || cb == nil {
		return nullArgument("document")
	}
	text, err := csvout.Emit(d)
	if err != nil {
		setLastError(err.Error())
		return C.int(engine.EmitCSV)
	}
	clearLastError()
	streamOut(text, cb, userData)
	return C.int(engine.OK)
}

//export hedl_to_neo4j_cypher
func hedl_to_neo4j_cypher(doc unsafe.Pointer, useMerge C.int, outStr **C.char) C.int {
	d, ok := docFrom(doc)
	if !ok || outStr == nil {
		return nullArgument("document")
	}
	text, err := cypherout.Emit(d, useMerge != 0)
	if err != nil {
		setLastError(err.Error())
		return C.int(engine.EmitGraph)
	}
	clearLastError()
	outString(text, outStr)
	return C.int(engine.OK)
}

//export hedl_to_neo4j_cypher_callback
func hedl_to_neo4j_cypher_callback(doc unsafe.Pointer, useMerge C.int, cb C.hedl_output_callback, userData unsafe.Pointer) C.int {
	d, ok := docFrom(doc)
	if !ok || cb == nil {
		return nullArgument("document")
	}
	text, err := cypherout.Emit(d, useMerge != 0)
	if err != nil {
		setLastError(err.Error())
		return C.int(engine.EmitGraph)
	}
	clearLastError()
	streamOut(text, cb, userData)
	return C.int(engine.OK)
}

//export hedl_lint
func hedl_lint(doc unsafe.Pointer, outDiag *unsafe.Pointer) C.int {
	d, ok := docFrom(doc)
	if !ok || outDiag == nil {
		return nullArgument("document")
	}
	diags, err := engine.LintDocument(d)
	if err != nil {
		return fail(err)
	}
	clearLastError()
	*outDiag = handleFor(engine.RegisterDiagnostics(diags))
	return C.int(engine.OK)
}

//export hedl_diagnostics_count
func hedl_diagnostics_count(diag unsafe.Pointer) C.int {
	d, ok := diagFrom(diag)
	if !ok {
		nullArgument("diagnostics")
		return -1
	}
	clearLastError()
	return C.int(d.Count())
}

//export hedl_diagnostics_get
func hedl_diagnostics_get(diag unsafe.Pointer, index C.int, outStr **C.char) C.int {
	d, ok := diagFrom(diag)
	if !ok || outStr == nil {
		return nullArgument("diagnostics")
	}
	msg, ok := d.MessageAt(int(index))
	if !ok {
		setLastError("diagnostic index out of range")
		return C.int(engine.Lint)
	}
	clearLastError()
	outString(msg, outStr)
	return C.int(engine.OK)
}

//export hedl_diagnostics_severity
func hedl_diagnostics_severity(diag unsafe.Pointer, index C.int) C.int {
	d, ok := diagFrom(diag)
	if !ok {
		nullArgument("diagnostics")
		return -1
	}
	clearLastError()
	return C.int(d.SeverityAt(int(index)))
}
