package model

import (
	"bytes"
	"encoding/json"
)

// ContentIndent is the indentation of content files in the repository.
const ContentIndent = "    "

// EncodeContent serializes v the way content files are committed: indented,
// UTF-8, HTML left unescaped and a trailing newline.
func EncodeContent(v any) ([]byte, error) {
	return EncodeIndent(v, ContentIndent)
}

func EncodeIndent(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeContent(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
