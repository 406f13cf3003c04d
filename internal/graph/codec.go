package graph

import (
	"bufio"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"

	"hlrev/internal/types"
)

// Format selects a document encoding.
type Format uint8

const (
	FormatJSON Format = iota + 1
	FormatMsgpack
	FormatCBOR
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	case FormatCBOR:
		return "cbor"
	default:
		return "unknown"
	}
}

// ParseFormat accepts a format name as printed by Format.String.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	case "cbor":
		return FormatCBOR, nil
	default:
		return 0, docError(ErrFormat, "%q (expected json|msgpack|cbor)", s)
	}
}

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	case ".cbor":
		return FormatCBOR, nil
	default:
		return 0, docError(ErrFormat, "cannot infer format of %q", path)
	}
}

// Decode reads one document.
func Decode(r io.Reader, f Format) (*Document, error) {
	var doc Document
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&doc)
	case FormatCBOR:
		err = cbor.NewDecoder(r).Decode(&doc)
	default:
		return nil, docError(ErrFormat, "format %d", f)
	}
	if err != nil {
		return nil, &Error{Kind: ErrDecode, Index: -1, Detail: f.String(), Err: err}
	}
	return &doc, nil
}

// Encode writes doc.
func Encode(w io.Writer, f Format, doc *Document) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(doc)
	case FormatCBOR:
		return cbor.NewEncoder(w).Encode(doc)
	default:
		return docError(ErrFormat, "format %d", f)
	}
}

// LoadFile decodes the document at path, inferring the format from the
// extension.
func LoadFile(path string) (*Document, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	doc, err := Decode(bufio.NewReader(file), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Load decodes and builds the graph at path.
func Load(path string) (*types.Graph, *Document, error) {
	doc, err := LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	g, err := Build(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, doc, nil
}

// SaveFile encodes doc to path via a temp file and rename.
func SaveFile(path string, doc *Document) (err error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".graph-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, os.Remove(tmp.Name()))
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = Encode(w, f, doc); err != nil {
		tmp.Close()
		return err
	}
	if err = w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Digest hashes the MessagePack encoding of doc. Equal documents have equal
// digests whatever format they were read from.
func Digest(doc *Document) ([sha256.Size]byte, error) {
	data, err := msgpack.Marshal(doc)
	if err != nil {
		return [sha256.Size]byte{}, err
	}
	return sha256.Sum256(data), nil
}
