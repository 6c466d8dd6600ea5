package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandlers_Ping(t *testing.T) {
	t.Parallel()

	h := New(nil)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()

	h.Ping(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if body["message"] != "pong" {
		t.Fatalf(`expected message "pong", got %q`, body["message"])
	}
}

func TestHandlers_HealthcheckHead(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	New(nil).HealthcheckHead(rr, httptest.NewRequest(http.MethodHead, "/healthcheck", nil))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
}

func TestHandlers_NotFound(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	New(nil).NotFound(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestDegrees_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		in   string
		want float64
		ok   bool
	}{
		"number":        {`12.5`, 12.5, true},
		"string":        {`"12.5"`, 12.5, true},
		"padded string": {`" -3 "`, -3, true},
		"word":          {`"abc"`, 0, false},
		"bool":          {`true`, 0, false},
	}
	for name, tc := range cases {
		var d degrees
		err := json.Unmarshal([]byte(tc.in), &d)
		if tc.ok != (err == nil) {
			t.Fatalf("%s: unexpected error state: %v", name, err)
		}
		if tc.ok && float64(d) != tc.want {
			t.Fatalf("%s: got %v want %v", name, float64(d), tc.want)
		}
	}
}
