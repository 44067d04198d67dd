//go:build !debugtoolbar_nobrotli

package encoding

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

func init() {
	registerBuiltin("br", decodeBrotli)
}

func decodeBrotli(data []byte) ([]byte, error) {
	out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("brotli: %w", err)
	}
	return out, nil
}
