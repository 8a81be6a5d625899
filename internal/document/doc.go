// Package document defines the rich-text tree consumed by the transformer:
// typed nodes with open attribute maps, and text runs carrying ordered inline
// marks. The JSON shape matches the editor wire format (type, attrs, content,
// text, marks); a msgpack encoding is provided for binary persistence.
package document
