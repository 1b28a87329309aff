package trends

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStaticIsSeededAndLimited(t *testing.T) {
	ctx := context.Background()

	a, err := NewStatic(7).Fetch(ctx, 3)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	b, err := NewStatic(7).Fetch(ctx, 3)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(a) != 3 {
		t.Fatalf("got %d trends, want 3", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("same seed produced different order at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestStaticHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStatic(1).Fetch(ctx, 5); err == nil {
		t.Error("Fetch with cancelled context should fail")
	}
}

func TestMergeDedupesCaseInsensitive(t *testing.T) {
	got := Merge(0,
		[]Trend{{Topic: "AI Innovation"}, {Topic: "Remote Work"}},
		[]Trend{{Topic: "ai innovation "}, {Topic: "Creator Economy"}, {Topic: ""}},
	)
	if len(got) != 3 {
		t.Fatalf("got %d trends, want 3: %v", len(got), got)
	}
	if got[0].Topic != "AI Innovation" {
		t.Errorf("first occurrence should win, got %q", got[0].Topic)
	}
}

func TestMergeLimits(t *testing.T) {
	got := Merge(2, []Trend{{Topic: "a"}, {Topic: "b"}, {Topic: "c"}})
	if len(got) != 2 {
		t.Errorf("got %d trends, want 2", len(got))
	}
}

func TestFormat(t *testing.T) {
	got := Format([]Trend{{Topic: "Remote Work", Source: "sample", Volume: VolumeHigh}})
	want := "Remote Work (Source: sample, Volume: high)"
	if len(got) != 1 || got[0] != want {
		t.Errorf("Format = %v, want [%q]", got, want)
	}
}

func TestHTTPProviderJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"topic":"Edge AI","relevance":0.7},{"topic":"Spatial Computing","source":"custom","volume":"high"}]`))
	}))
	defer srv.Close()

	got, err := NewHTTPProvider(srv.URL, "feed").Fetch(context.Background(), 0)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d trends, want 2", len(got))
	}
	if got[0].Source != "feed" || got[0].Volume != VolumeMedium {
		t.Errorf("defaults not applied: %+v", got[0])
	}
	if got[1].Source != "custom" {
		t.Errorf("explicit source overwritten: %+v", got[1])
	}
}

func TestHTTPProviderRSS(t *testing.T) {
	const feed = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<item><title>Quantum Leap</title></item>
<item><title>  Wearable Tech  </title></item>
<item><title></title></item>
</channel></rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(feed))
	}))
	defer srv.Close()

	got, err := NewHTTPProvider(srv.URL, "rss").Fetch(context.Background(), 0)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d trends, want 2: %v", len(got), got)
	}
	if got[1].Topic != "Wearable Tech" {
		t.Errorf("title not trimmed: %q", got[1].Topic)
	}
}

func TestHTTPProviderLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"topic":"a"},{"topic":"b"},{"topic":"c"}]`))
	}))
	defer srv.Close()

	got, err := NewHTTPProvider(srv.URL, "feed").Fetch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d trends, want 1", len(got))
	}
}

func TestHTTPProviderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(srv.URL, "feed").Fetch(context.Background(), 0)
	if err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("error = %v, want status 503 mention", err)
	}
}

type failingProvider struct{}

func (failingProvider) Fetch(context.Context, int) ([]Trend, error) {
	return nil, context.DeadlineExceeded
}

type emptyProvider struct{}

func (emptyProvider) Fetch(context.Context, int) ([]Trend, error) { return nil, nil }

func TestMultiSkipsFailuresAndFallsBack(t *testing.T) {
	ctx := context.Background()

	m := NewMulti(NewStatic(3), failingProvider{}, emptyProvider{})
	got, err := m.Fetch(ctx, 4)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("fallback not consulted, got %d trends", len(got))
	}

	// With a live provider the fallback stays untouched.
	live := NewMulti(nil, NewStatic(3), failingProvider{})
	got, err = live.Fetch(ctx, 2)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d trends, want 2", len(got))
	}
}
