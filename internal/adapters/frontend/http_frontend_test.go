package frontend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/mikey/phish-verdict/internal/core"
)

func newTestHTTPFrontend(t *testing.T, detector core.Detector) *HTTPFrontend {
	t.Helper()
	service := core.NewAnalysisService(detector, nil, zap.NewNop())
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("metrics"))
	})
	return NewHTTPFrontend(service, zaptest.NewLogger(t), "127.0.0.1:0", "/metrics", metrics)
}

func postAnalyze(h http.Handler, body, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp.Error
}

func TestHTTPFrontend_AnalyzeReturnsVerdict(t *testing.T) {
	f := newTestHTTPFrontend(t, &stubDetector{payload: phishingPayload()})

	rec := postAnalyze(f.Handler(), `{"email":"verify your account now"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var got core.Verdict
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode verdict: %v", err)
	}
	want := core.Classify(*phishingPayload())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("verdict mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPFrontend_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		detector   *stubDetector
		wantStatus int
		wantError  string
	}{
		{
			name:       "blank email",
			body:       `{"email":"  \n "}`,
			detector:   &stubDetector{payload: cleanPayload()},
			wantStatus: http.StatusBadRequest,
			wantError:  core.MessageEmptyInput,
		},
		{
			name:       "invalid json",
			body:       `{"email":`,
			detector:   &stubDetector{payload: cleanPayload()},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name:       "service failure",
			body:       `{"email":"hello"}`,
			detector:   &stubDetector{err: &core.ServiceError{StatusCode: 500}},
			wantStatus: http.StatusBadGateway,
			wantError:  core.MessageFailure,
		},
		{
			name:       "malformed payload",
			body:       `{"email":"hello"}`,
			detector:   &stubDetector{},
			wantStatus: http.StatusBadGateway,
			wantError:  core.MessageFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestHTTPFrontend(t, tt.detector)
			rec := postAnalyze(f.Handler(), tt.body, "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := decodeError(t, rec); got != tt.wantError {
				t.Errorf("error = %q, want %q", got, tt.wantError)
			}
		})
	}
}

func TestHTTPFrontend_NewerSessionRequestSupersedesOlder(t *testing.T) {
	started := make(chan struct{})
	detector := &stubDetector{
		payload: cleanPayload(),
		block:   map[string]chan struct{}{"first": started},
	}
	f := newTestHTTPFrontend(t, detector)

	var wg sync.WaitGroup
	var first *httptest.ResponseRecorder
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = postAnalyze(f.Handler(), `{"email":"first"}`, "screen-1")
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first analysis never started")
	}

	second := postAnalyze(f.Handler(), `{"email":"second"}`, "screen-1")
	wg.Wait()

	if second.Code != http.StatusOK {
		t.Errorf("second status = %d, want 200", second.Code)
	}
	if first.Code != http.StatusConflict {
		t.Errorf("first status = %d, want 409", first.Code)
	}
	if n := f.activeSessions(); n != 0 {
		t.Errorf("active sessions = %d, want 0", n)
	}
}

func TestHTTPFrontend_CancelSession(t *testing.T) {
	started := make(chan struct{})
	detector := &stubDetector{block: map[string]chan struct{}{"slow": started}}
	f := newTestHTTPFrontend(t, detector)

	done := make(chan *httptest.ResponseRecorder)
	go func() {
		done <- postAnalyze(f.Handler(), `{"email":"slow"}`, "screen-2")
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("analysis never started")
	}

	req := httptest.NewRequest(http.MethodDelete, "/sessions/screen-2", nil)
	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("cancel status = %d, want 204", rec.Code)
	}

	select {
	case resp := <-done:
		if resp.Code != http.StatusConflict {
			t.Errorf("canceled analysis status = %d, want 409", resp.Code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("canceled analysis did not return")
	}
}

func TestHTTPFrontend_HealthAndMetrics(t *testing.T) {
	f := newTestHTTPFrontend(t, &stubDetector{payload: cleanPayload()})

	for path, want := range map[string]string{"/healthz": `"status":"ok"`, "/metrics": "metrics"} {
		rec := httptest.NewRecorder()
		f.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("GET %s body = %q, want %q", path, rec.Body.String(), want)
		}
	}

	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analyze", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /analyze status = %d, want 405", rec.Code)
	}
}
