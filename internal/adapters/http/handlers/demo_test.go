package handlers_test

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JacobCoffee/debug-toolbar/internal/adapters/http/handlers"
)

func TestDemo_Home(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	handlers.NewDemo(nil).Home(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "</body>") {
		t.Error("home page missing closing body tag")
	}
}

func TestDemo_Compressed(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	handlers.NewDemo(nil).Compressed(rec, httptest.NewRequest(http.MethodGet, "/compressed", http.NoBody))

	if ce := rec.Header().Get("Content-Encoding"); ce != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", ce)
	}

	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("response is not valid gzip: %v", err)
	}
	plain, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompressing response: %v", err)
	}
	if !strings.Contains(string(plain), "gzip-compressed page") {
		t.Errorf("decompressed body = %q", plain)
	}
}

func TestDemo_Time(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	handlers.NewDemo(nil).Time(rec, httptest.NewRequest(http.MethodGet, "/api/time", http.NoBody))

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["now"] == "" {
		t.Error("response missing now field")
	}
}

func TestDemo_Panic(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("Panic handler did not panic")
		}
	}()

	rec := httptest.NewRecorder()
	handlers.NewDemo(nil).Panic(rec, httptest.NewRequest(http.MethodGet, "/panic", http.NoBody))
}

func TestDemo_Liveness(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	handlers.NewDemo(nil).Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}
