package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrEmptyPayload  = errors.New("document: empty payload")
	ErrMissingType   = errors.New("document: root node type is required")
	ErrNilDocument   = errors.New("document: nil document")
	ErrDecodePayload = errors.New("document: decode failed")
)

// Decode parses the editor JSON representation of a document tree.
func Decode(data []byte) (*Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyPayload
	}
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader parses editor JSON from r.
func DecodeReader(r io.Reader) (*Node, error) {
	var node Node
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyPayload
		}
		return nil, fmt.Errorf("%w: %v", ErrDecodePayload, err)
	}
	if node.Type == "" {
		return nil, ErrMissingType
	}
	normalizeNumbers(&node)
	return &node, nil
}

// Encode renders the tree as editor JSON.
func Encode(node *Node) ([]byte, error) {
	if node == nil {
		return nil, ErrNilDocument
	}
	return json.Marshal(node)
}

// EncodeBinary serialises the tree with msgpack for compact storage.
func EncodeBinary(node *Node) ([]byte, error) {
	if node == nil {
		return nil, ErrNilDocument
	}
	return msgpack.Marshal(node)
}

// DecodeBinary restores a tree produced by EncodeBinary.
func DecodeBinary(data []byte) (*Node, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	var node Node
	if err := msgpack.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodePayload, err)
	}
	if node.Type == "" {
		return nil, ErrMissingType
	}
	return &node, nil
}

// normalizeNumbers converts json.Number attribute values into int64 when
// integral and float64 otherwise, so attribute lookups behave the same for
// JSON and msgpack sourced trees.
func normalizeNumbers(node *Node) {
	if node == nil {
		return
	}
	normalizeAttrs(node.Attrs)
	for i := range node.Marks {
		normalizeAttrs(node.Marks[i].Attrs)
	}
	for _, child := range node.Content {
		normalizeNumbers(child)
	}
}

func normalizeAttrs(attrs Attrs) {
	for key, val := range attrs {
		num, ok := val.(json.Number)
		if !ok {
			continue
		}
		if i, err := num.Int64(); err == nil {
			attrs[key] = i
			continue
		}
		if f, err := num.Float64(); err == nil {
			attrs[key] = f
			continue
		}
		attrs[key] = num.String()
	}
}
