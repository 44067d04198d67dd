package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/JacobCoffee/debug-toolbar/internal/platform/logging"
)

// --- New tests ---

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("info", "json", &buf)

	logger.Info("hello")

	out := buf.String()
	if !strings.Contains(out, `"level":"INFO"`) {
		t.Errorf("output = %q, want it to contain '\"level\":\"INFO\"'", out)
	}
	if !strings.Contains(out, `"msg":"hello"`) {
		t.Errorf("output = %q, want it to contain '\"msg\":\"hello\"'", out)
	}
}

func TestNew_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("info", "text", &buf)

	logger.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "level=INFO") {
		t.Errorf("output = %q, want it to contain 'level=INFO'", out)
	}
}

func TestNew_DebugLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("debug", "json", &buf)

	logger.Debug("pipeline decision")

	if buf.Len() == 0 {
		t.Error("debug message was filtered out, want it to appear at debug level")
	}
	if !strings.Contains(buf.String(), `"source"`) {
		t.Errorf("output = %q, want '\"source\"' at debug level", buf.String())
	}
}

func TestNew_InfoLevelFiltersDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("info", "json", &buf)

	logger.Debug("should not appear")

	if buf.Len() != 0 {
		t.Errorf("debug message appeared at info level, output = %q", buf.String())
	}
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("verbose", "json", &buf)

	logger.Debug("should not appear")
	if buf.Len() != 0 {
		t.Errorf("debug message appeared with unknown level, output = %q", buf.String())
	}

	logger.Info("should appear")
	if buf.Len() == 0 {
		t.Error("info message was filtered with unknown level, want it to appear")
	}
}

func TestNew_UnknownFormatDefaultsToJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("info", "xml", &buf)

	logger.Info("hello")

	if !strings.Contains(buf.String(), `"level":"INFO"`) {
		t.Errorf("output = %q, want JSON format for unknown format string", buf.String())
	}
}

func TestNew_LevelCaseInsensitive(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("DEBUG", "json", &buf)

	logger.Debug("should appear")

	if buf.Len() == 0 {
		t.Error("debug message was filtered with uppercase 'DEBUG', want case-insensitive parsing")
	}
}

// --- Context tests ---

func TestFromContext_WithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("info", "json", &buf)

	ctx := logging.WithLogger(context.Background(), logger)
	got := logging.FromContext(ctx)

	if got != logger {
		t.Error("FromContext returned different logger than the one stored with WithLogger")
	}
}

func TestFromContext_NoLogger(t *testing.T) {
	t.Parallel()

	got := logging.FromContext(context.Background())

	if got != slog.Default() {
		t.Error("FromContext on bare context returned something other than slog.Default()")
	}
}

// --- Redaction tests ---

func TestNew_RedactsAuthorizationFieldName(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("info", "json", &buf)

	logger.Info("request", slog.String("authorization", "Bearer supersecret-token"))

	out := buf.String()
	if strings.Contains(out, "supersecret-token") {
		t.Error("log output contains raw token, want it redacted")
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Error("log output missing [REDACTED] marker")
	}
}

func TestNew_RedactsCookieFieldName(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("info", "json", &buf)

	logger.Info("captured headers", slog.String("cookie", "session=abc123"))

	out := buf.String()
	if strings.Contains(out, "session=abc123") {
		t.Error("log output contains raw cookie, want it redacted")
	}
}

func TestNew_DefenseInDepthBearerRegex(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("info", "json", &buf)

	logger.Info("decode failed", slog.String("raw_header", "Bearer eyJhbGciOiJSUzI1NiJ9"))

	out := buf.String()
	if strings.Contains(out, "eyJhbGciOiJSUzI1NiJ9") {
		t.Error("log output contains raw Bearer token, want it redacted by regex")
	}
}

func TestNew_DoesNotRedactNonSensitiveFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.New("info", "json", &buf)

	logger.Info("response finalized",
		slog.String("path", "/page"),
		slog.String("encoding", "gzip"),
	)

	out := buf.String()
	if !strings.Contains(out, "/page") {
		t.Error("log output missing path, non-sensitive field should not be redacted")
	}
	if !strings.Contains(out, "gzip") {
		t.Error("log output missing encoding, non-sensitive field should not be redacted")
	}
}

// --- Header map redaction ---

func TestRedactHeaderMap(t *testing.T) {
	t.Parallel()

	headers := http.Header{}
	headers.Set("Authorization", "Bearer token")
	headers.Set("X-Api-Key", "key-123")
	headers.Set("Accept", "text/html")
	headers.Add("Accept-Encoding", "gzip")
	headers.Add("Accept-Encoding", "br")

	out := logging.RedactHeaderMap(headers)

	if out["Authorization"] != logging.Redacted {
		t.Errorf("Authorization = %q, want %q", out["Authorization"], logging.Redacted)
	}
	if out["X-Api-Key"] != logging.Redacted {
		t.Errorf("X-Api-Key = %q, want %q", out["X-Api-Key"], logging.Redacted)
	}
	if out["Accept"] != "text/html" {
		t.Errorf("Accept = %q", out["Accept"])
	}
	if out["Accept-Encoding"] != "gzip,br" {
		t.Errorf("Accept-Encoding = %q, want multi-values joined", out["Accept-Encoding"])
	}
}

func TestRedactHeaderMap_CaseInsensitive(t *testing.T) {
	t.Parallel()

	out := logging.RedactHeaderMap(http.Header{
		"SET-COOKIE": []string{"session=abc"},
	})

	if out["SET-COOKIE"] != logging.Redacted {
		t.Errorf("SET-COOKIE = %q, want redacted regardless of case", out["SET-COOKIE"])
	}
}
