package encoding

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"strings"
)

// DecodeFunc reverses a single content coding. It returns an error when the
// input is not valid for that coding and never returns a partial result.
type DecodeFunc func([]byte) ([]byte, error)

// Status classifies a coding token from the registry's point of view.
type Status int

const (
	// StatusUnknown means the token is not a coding this registry has ever
	// heard of. The whole stack it appears in is non-reversible.
	StatusUnknown Status = iota

	// StatusUnavailable means the coding is recognized but its decoder was
	// excluded at build time or disabled through configuration.
	StatusUnavailable

	// StatusAvailable means the registry holds a working decoder.
	StatusAvailable
)

// knownCodings is every token the registry recognizes, whether or not a
// decoder is compiled into this binary.
var knownCodings = map[string]bool{
	"gzip":    true,
	"deflate": true,
	"br":      true,
	"zstd":    true,
}

// builtins holds the decoders compiled into this binary. The optional codings
// (br, zstd) add themselves from init functions guarded by build tags.
var builtins = map[string]DecodeFunc{}

func registerBuiltin(name string, fn DecodeFunc) {
	builtins[name] = fn
}

func init() {
	registerBuiltin("gzip", decodeGzip)
	registerBuiltin("deflate", decodeDeflate)
}

// Registry maps content-coding tokens to decoders. It is built once at
// startup and read-only afterwards, so it is safe to share across requests
// without locking.
type Registry struct {
	decoders map[string]DecodeFunc
}

// NewRegistry creates a registry holding every compiled-in decoder, minus any
// codings named in disabled. Disabling a coding leaves it known but
// unavailable, exactly as if its decoder had been excluded at build time.
func NewRegistry(disabled ...string) *Registry {
	r := &Registry{decoders: make(map[string]DecodeFunc, len(builtins))}
	for name, fn := range builtins {
		r.decoders[name] = fn
	}
	for _, name := range disabled {
		delete(r.decoders, strings.ToLower(strings.TrimSpace(name)))
	}
	return r
}

// Lookup resolves a coding token to its decoder and status. The token must
// already be normalized (lowercase, trimmed), as produced by ParseStack.
func (r *Registry) Lookup(token string) (DecodeFunc, Status) {
	if fn, ok := r.decoders[token]; ok {
		return fn, StatusAvailable
	}
	if knownCodings[token] {
		return nil, StatusUnavailable
	}
	return nil, StatusUnknown
}

func decodeGzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	out, err := io.ReadAll(zr)
	if cerr := zr.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return out, nil
}

// decodeDeflate handles both wire forms seen in the wild: the RFC 9110
// zlib-wrapped stream and the bare DEFLATE stream some origins emit.
func decodeDeflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err == nil {
		out, rerr := io.ReadAll(zr)
		if cerr := zr.Close(); rerr == nil {
			rerr = cerr
		}
		if rerr == nil {
			return out, nil
		}
	}

	fr := flate.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(fr)
	if cerr := fr.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	return out, nil
}
