package session

import (
	"bytes"
	"encoding/gob"
)

func init() {
	// Session values travel as interfaces, so the composite shapes the
	// bucket produces must be known to gob up front.
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// EncodeValue serializes an arbitrary session value using encoding/gob.
// Callers must ensure that values are gob-encodable.
func EncodeValue(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	// Encode as interface{} so we can safely decode into interface{}.
	iv := v
	if err := enc.Encode(&iv); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeValue deserializes a value produced by EncodeValue.
// Empty input decodes to nil.
func DecodeValue(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var iv any
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&iv); err != nil {
		return nil, err
	}
	return iv, nil
}
