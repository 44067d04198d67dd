//go:build !debugtoolbar_nozstd

package encoding

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

func init() {
	registerBuiltin("zstd", decodeZstd)
}

func decodeZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	return out, nil
}
