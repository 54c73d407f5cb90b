package domain

import "encoding/json"

// Codec serializes and deserializes job payloads onto the wire. The
// default is JSON, matching the wire envelope's content_type/
// content_encoding (application/json, utf-8); a deployment that needs a
// different payload format implements Codec and passes it to
// Query.WithCodec or sets it as a Queue's Codec.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default Codec.
type JSONCodec struct{}

// Marshal implements Codec.
func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal implements Codec.
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// DefaultCodec is the package-wide default, used whenever a caller does not
// supply its own.
var DefaultCodec Codec = JSONCodec{}
