// Package compression holds the codecs used for blobs stored in SQLite.
package compression

import "fmt"

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// None stores data as is.
type None struct{}

func (None) Compress(data []byte) ([]byte, error)   { return data, nil }
func (None) Decompress(data []byte) ([]byte, error) { return data, nil }

// ForName maps the storage.compression config value to a codec.
func ForName(name string) (Compressor, error) {
	switch name {
	case "zstd", "":
		return NewZstd()
	case "gzip":
		return GzipCompressor{}, nil
	case "none":
		return None{}, nil
	}
	return nil, fmt.Errorf("unknown compression %q", name)
}
