package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/justinong00/mern-dormguru-sub000/internal/service"
	"github.com/justinong00/mern-dormguru-sub000/internal/testutil"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid id", service.ErrInvalidID, http.StatusBadRequest},
		{"validation", service.ErrWrongOldPassword, http.StatusBadRequest},
		{"duplicate", service.ErrEmailTaken, http.StatusBadRequest},
		{"not found", service.ErrDormNotFound, http.StatusNotFound},
		{"unauthorized", service.ErrInvalidPassword, http.StatusUnauthorized},
		{"forbidden", service.ErrAccountInactive, http.StatusForbidden},
		{"conflict", fmt.Errorf("%w: try again", service.ErrConflict), http.StatusConflict},
		{"wrapped twice", fmt.Errorf("load: %w", service.ErrReviewNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, service.ErrDormNotFound)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusNotFound)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("success should be false")
	}
	if env.Message != "Dorm not found" {
		t.Errorf("message: got %q, want %q", env.Message, "Dorm not found")
	}
}

func TestWriteError_UnknownKeepsRawMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("connection reset"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Message != "connection reset" {
		t.Errorf("message: got %q", env.Message)
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	empty := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := decodeJSON(empty, &dst); err != nil {
		t.Errorf("empty body: unexpected error %v", err)
	}

	bad := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	err := decodeJSON(bad, &dst)
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("malformed body: got %v, want validation error", err)
	}
	if statusFor(err) != http.StatusBadRequest {
		t.Errorf("malformed body should map to 400")
	}

	good := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Kolej 12"}`))
	if err := decodeJSON(good, &dst); err != nil || dst.Name != "Kolej 12" {
		t.Errorf("good body: got %q, %v", dst.Name, err)
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success || env.Message != "ok" {
		t.Errorf("unexpected body %+v", env)
	}
}

func TestInvalidPathID_Returns400(t *testing.T) {
	// the handlers reject the id before touching their service
	handlers := map[string]http.HandlerFunc{
		"university get":  (&UniversityHandler{}).Get,
		"dorm get":        (&DormHandler{}).Get,
		"dorm delete":     (&DormHandler{}).Delete,
		"review get":      (&ReviewHandler{}).Get,
		"reviews by dorm": (&ReviewHandler{}).ByDorm,
		"toggle like":     (&ReviewHandler{}).ToggleLike,
	}

	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x/not-an-id", nil)
			req = testutil.WithChiURLParam(req, "id", "not-an-id")
			rec := httptest.NewRecorder()

			h(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rec.Code)
			}
			if env := decodeEnvelope(t, rec); env.Success {
				t.Error("success should be false")
			}
		})
	}
}

func TestImageUpload_MissingFile(t *testing.T) {
	h := NewImageHandler(nil, 1<<20, nil)

	body := "--xyz\r\nContent-Disposition: form-data; name=\"other\"\r\n\r\nvalue\r\n--xyz--\r\n"
	req := httptest.NewRequest(http.MethodPost, "/api/images", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Message != "image is required" {
		t.Errorf("message: got %q", env.Message)
	}
}
