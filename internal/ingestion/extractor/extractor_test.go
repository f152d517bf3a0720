package extractor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	e := New(log, Options{FetchTimeout: 2 * time.Second})
	e.RetryBackoff = time.Millisecond
	return e
}

func TestExtractHTMLSkipsChrome(t *testing.T) {
	page := `<!doctype html><html><head><title>T</title><style>p{}</style>
<script>var x = 1;</script></head><body>
<header>Site header</header><nav>Home | About</nav>
<p>Photosynthesis converts   light.</p><div>Plants <b>grow</b>.</div>
<footer>Copyright</footer></body></html>`
	got, err := ExtractHTML([]byte(page))
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	want := "T Photosynthesis converts   light. Plants grow ."
	if got != want {
		t.Fatalf("ExtractHTML = %q, want %q", got, want)
	}
}

func TestValidateURL(t *testing.T) {
	for _, bad := range []string{"ftp://example.com/x", "example.com", "http://", "file:///etc/passwd"} {
		if _, err := ValidateURL(bad); err == nil {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
	if _, err := ValidateURL(" https://example.com/page "); err != nil {
		t.Fatalf("valid url rejected: %v", err)
	}
}

func TestFetchURLRetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("<html><body><p>Mitochondria make energy.</p></body></html>"))
	}))
	defer srv.Close()

	e := newTestExtractor(t)
	got, err := e.FetchURL(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchURL: %v", err)
	}
	if got != "Mitochondria make energy." {
		t.Fatalf("unexpected text %q", got)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestFetchURLClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	e := newTestExtractor(t)
	_, err := e.FetchURL(context.Background(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("4xx should not be retried, got %d calls", calls)
	}
}

func TestExtractPDFRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want string
	}{
		{"empty", nil, "does not look like a PDF"},
		{"plain_text", []byte("plain text pretending"), `head="plain te"`},
		{"truncated", []byte("%PDF-1.4 garbage"), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractPDF(tc.in)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("ExtractPDF(%q) err=%v, want containing %q", tc.in, err, tc.want)
			}
		})
	}
}
