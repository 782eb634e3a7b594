package compress

import "fmt"

// Compress encodes and decodes opaque payloads.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// FromName returns the codec registered under name.
func FromName(name string) (Compress, error) {
	switch name {
	case "", "nop", "none":
		return NewNop(), nil
	case "gzip":
		return NewGZip(), nil
	case "brotli":
		return NewBrotli(), nil
	case "lz4":
		return NewLZ4(), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}
