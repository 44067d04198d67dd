package panels

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/mock"
)

type mockPanel struct {
	mock.Mock
}

func (m *mockPanel) Name() string  { return m.Called().String(0) }
func (m *mockPanel) Title() string { return m.Called().String(0) }

func (m *mockPanel) OnRequest(r *http.Request) {
	m.Called(r)
}

func (m *mockPanel) OnResponse(status int, headers http.Header) {
	m.Called(status, headers)
}

func (m *mockPanel) Stats() Stats {
	return m.Called().Get(0).(Stats)
}

// orderPanel records hook invocations into a shared log so dispatch order
// can be asserted across panels.
type orderPanel struct {
	name string
	log  *[]string
}

func (p *orderPanel) Name() string  { return p.name }
func (p *orderPanel) Title() string { return p.name }

func (p *orderPanel) OnRequest(_ *http.Request) {
	*p.log = append(*p.log, p.name+":request")
}

func (p *orderPanel) OnResponse(_ int, _ http.Header) {
	*p.log = append(*p.log, p.name+":response")
}

func (p *orderPanel) Stats() Stats { return Stats{} }

// panickyPanel blows up in the requested hook.
type panickyPanel struct {
	inRequest  bool
	inResponse bool
	inStats    bool
}

func (p *panickyPanel) Name() string  { return "panicky" }
func (p *panickyPanel) Title() string { return "Panicky" }

func (p *panickyPanel) OnRequest(_ *http.Request) {
	if p.inRequest {
		panic("request hook failure")
	}
}

func (p *panickyPanel) OnResponse(_ int, _ http.Header) {
	if p.inResponse {
		panic("response hook failure")
	}
}

func (p *panickyPanel) Stats() Stats {
	if p.inStats {
		panic("stats failure")
	}
	return Stats{}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestOrchestrator_HooksAndRecord(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/page?q=1", nil)
	respHeaders := http.Header{"Content-Type": []string{"text/html"}}

	p := &mockPanel{}
	p.On("Name").Return("mocked")
	p.On("Title").Return("Mocked")
	p.On("OnRequest", req).Once()
	p.On("OnResponse", 200, respHeaders).Once()
	p.On("Stats").Return(Stats{"k": "v"}).Once()

	orch := NewOrchestrator(NewHistory(5), testLogger(), func() Panel { return p })

	ctx := orch.Open(req)
	rec := ctx.Finish(200, respHeaders)

	p.AssertExpectations(t)

	if rec.Method != http.MethodGet || rec.Path != "/page" {
		t.Errorf("record request line = %s %s", rec.Method, rec.Path)
	}
	if rec.Status != 200 {
		t.Errorf("record status = %d, want 200", rec.Status)
	}
	if len(rec.Panels) != 1 {
		t.Fatalf("len(rec.Panels) = %d, want 1", len(rec.Panels))
	}
	if rec.Panels[0].Name != "mocked" || rec.Panels[0].Stats["k"] != "v" {
		t.Errorf("panel record = %+v", rec.Panels[0])
	}

	stored, ok := orch.History().Get(rec.ID)
	if !ok {
		t.Fatal("finished record missing from history")
	}
	if stored.Path != "/page" {
		t.Errorf("stored record path = %q", stored.Path)
	}
}

func TestOrchestrator_DispatchOrder(t *testing.T) {
	t.Parallel()

	var log []string
	orch := NewOrchestrator(NewHistory(5), testLogger(),
		func() Panel { return &orderPanel{name: "first", log: &log} },
		func() Panel { return &orderPanel{name: "second", log: &log} },
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := orch.Open(req)
	ctx.Finish(200, nil)

	want := []string{"first:request", "second:request", "first:response", "second:response"}
	if len(log) != len(want) {
		t.Fatalf("hook log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("hook log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestOrchestrator_PanicContainment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		panel *panickyPanel
	}{
		{name: "request hook", panel: &panickyPanel{inRequest: true}},
		{name: "response hook", panel: &panickyPanel{inResponse: true}},
		{name: "stats", panel: &panickyPanel{inStats: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var log []string
			orch := NewOrchestrator(NewHistory(5), testLogger(),
				func() Panel { return tt.panel },
				func() Panel { return &orderPanel{name: "healthy", log: &log} },
			)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			ctx := orch.Open(req)
			rec := ctx.Finish(200, nil)

			// The healthy panel still ran both hooks.
			if len(log) != 2 {
				t.Errorf("healthy panel hook log = %v", log)
			}

			// The healthy panel's record survives regardless of where the
			// broken one failed.
			var names []string
			for _, pr := range rec.Panels {
				names = append(names, pr.Name)
			}
			found := false
			for _, n := range names {
				if n == "healthy" {
					found = true
				}
			}
			if !found {
				t.Errorf("healthy panel missing from record, panels = %v", names)
			}
		})
	}
}

func TestOrchestrator_NoPanels(t *testing.T) {
	t.Parallel()

	orch := NewOrchestrator(NewHistory(5), testLogger())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := orch.Open(req).Finish(204, nil)

	if len(rec.Panels) != 0 {
		t.Errorf("len(rec.Panels) = %d, want 0", len(rec.Panels))
	}
	if rec.Status != 204 {
		t.Errorf("record status = %d, want 204", rec.Status)
	}
}

func TestNewID_Format(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := newID()
		if !pattern.MatchString(id) {
			t.Fatalf("newID() = %q, not a v4 UUID", id)
		}
		if seen[id] {
			t.Fatalf("newID() repeated %q", id)
		}
		seen[id] = true
	}
}
