// Package graph reads and writes type graph documents, the serialized form
// of a bytecode module's type table, and builds them into a types.Graph.
//
// A document lists types in bytecode order. References between types are
// bytecode indices (0-based); Build turns them into TypeIDs.
//
// Three encodings are supported and picked by file extension: JSON
// (.json), MessagePack (.msgpack, .mp) and CBOR (.cbor).
package graph
