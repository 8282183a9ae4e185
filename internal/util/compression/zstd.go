package compression

import "github.com/klauspost/compress/zstd"

// ZstdCompressor keeps one encoder and one decoder; EncodeAll and DecodeAll
// are safe for concurrent use.
type ZstdCompressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func NewZstd() (*ZstdCompressor, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, err
	}
	return &ZstdCompressor{enc: enc, dec: dec}, nil
}

func (z *ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return z.enc.EncodeAll(data, nil), nil
}

func (z *ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	return z.dec.DecodeAll(data, nil)
}
