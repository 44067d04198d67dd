package encoding

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestDecode_EmptyStack(t *testing.T) {
	t.Parallel()

	body := []byte("<html><body>plain</body></html>")
	res := Decode(NewRegistry(), nil, body, discardLogger())

	if !res.Decoded {
		t.Error("Decoded = false, want true for plaintext body")
	}
	if !bytes.Equal(res.Body, body) {
		t.Errorf("Body = %q, want original", res.Body)
	}
}

func TestDecode_EmptyStackBinaryBody(t *testing.T) {
	t.Parallel()

	body := []byte{0xff, 0xfe, 0x00, 0x01}
	res := Decode(NewRegistry(), nil, body, discardLogger())

	if res.Decoded {
		t.Error("Decoded = true, want false for non-UTF-8 body")
	}
	if !bytes.Equal(res.Body, body) {
		t.Error("pass-through must return the original bytes")
	}
}

func TestDecode_GzipRoundTrip(t *testing.T) {
	t.Parallel()

	payload := []byte("<html><body>Hi</body></html>")
	res := Decode(NewRegistry(), ParseStack("gzip"), gzipBytes(t, payload), discardLogger())

	if !res.Decoded {
		t.Fatal("Decoded = false, want true")
	}
	if !bytes.Equal(res.Body, payload) {
		t.Errorf("Body = %q, want %q", res.Body, payload)
	}
}

func TestDecode_GzipIdentityStack(t *testing.T) {
	t.Parallel()

	// "gzip, identity" must decode exactly like "gzip": identity tokens
	// are no-ops and do not affect the result.
	payload := []byte("<html><body>Hi</body></html>")
	compressed := gzipBytes(t, payload)

	plain := Decode(NewRegistry(), ParseStack("gzip"), compressed, discardLogger())
	withIdentity := Decode(NewRegistry(), ParseStack("gzip, identity"), compressed, discardLogger())

	if !withIdentity.Decoded {
		t.Fatal("Decoded = false, want true")
	}
	if !bytes.Equal(plain.Body, withIdentity.Body) {
		t.Error("identity token changed the decoded result")
	}
}

func TestDecode_CorruptGzipPassesThrough(t *testing.T) {
	t.Parallel()

	body := []byte("this is not gzip data")
	res := Decode(NewRegistry(), ParseStack("gzip"), body, discardLogger())

	if res.Decoded {
		t.Error("Decoded = true, want false for corrupt input")
	}
	if !bytes.Equal(res.Body, body) {
		t.Error("pass-through must return the original compressed bytes unchanged")
	}
}

func TestDecode_UnknownToken(t *testing.T) {
	t.Parallel()

	// An unknown token anywhere makes the whole stack non-reversible,
	// even when every other stage could decode.
	payload := gzipBytes(t, []byte("<html></html>"))
	res := Decode(NewRegistry(), ParseStack("sdch, gzip"), payload, discardLogger())

	if res.Decoded {
		t.Error("Decoded = true, want false for unknown token in stack")
	}
	if !bytes.Equal(res.Body, payload) {
		t.Error("pass-through must return the original bytes")
	}
}

func TestDecode_UnavailableCodecLogsDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	body := []byte("pretend zstd data")

	res := Decode(NewRegistry("zstd"), ParseStack("zstd"), body, debugLogger(&buf))

	if res.Decoded {
		t.Error("Decoded = true, want false for unavailable codec")
	}
	if !bytes.Equal(res.Body, body) {
		t.Error("pass-through must return the original bytes unchanged")
	}
	if !strings.Contains(buf.String(), "no decoder available") {
		t.Errorf("log output = %q, want a debug entry about the unavailable decoder", buf.String())
	}
}

func TestDecode_NonUTF8ResultPassesThrough(t *testing.T) {
	t.Parallel()

	// Valid gzip of a binary payload: the cascade succeeds but the result
	// is not text, so the original compressed bytes pass through.
	binary := []byte{0xff, 0xfe, 0xfd, 0x00, 0x80}
	compressed := gzipBytes(t, binary)

	res := Decode(NewRegistry(), ParseStack("gzip"), compressed, discardLogger())

	if res.Decoded {
		t.Error("Decoded = true, want false for non-UTF-8 decode result")
	}
	if !bytes.Equal(res.Body, compressed) {
		t.Error("pass-through must return the compressed bytes, not the partial decode")
	}
}

func TestDecode_NeverReturnsPartialDecode(t *testing.T) {
	t.Parallel()

	// Stack declares deflate then gzip; the body is only gzip. The gzip
	// stage succeeds, the deflate stage fails, and the result must be the
	// original bytes, not the intermediate single-stage decode.
	original := gzipBytes(t, []byte("<html><body>once</body></html>"))
	res := Decode(NewRegistry(), ParseStack("deflate, gzip"), original, discardLogger())

	if res.Decoded {
		t.Error("Decoded = true, want false")
	}
	if !bytes.Equal(res.Body, original) {
		t.Error("failed cascade must return the untouched original, never a partial decode")
	}
}
