package main

import (
	"encoding/json"
	"fmt"
	"io"
	"lingoquest/models"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPingHandler(t *testing.T) {
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := httptest.NewRecorder()
	pingHandler(rec, httptest.NewRequest("GET", "/ping", nil))
	if rec.Body.String() != "pong" {
		t.Errorf("expected pong, got %q", rec.Body.String())
	}
}

func TestWriteErrStatusMapping(t *testing.T) {
	srv := &Server{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: level 7", models.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: %q", models.ErrInvalidType, "KARAOKE"), http.StatusBadRequest},
		{fmt.Errorf("%w: inference", models.ErrSynthesis), http.StatusInternalServerError},
		{fmt.Errorf("%w: disk full", models.ErrAudioWrite), http.StatusInternalServerError},
	}
	for i, tc := range cases {
		rec := httptest.NewRecorder()
		srv.writeErr(rec, tc.err)
		if rec.Code != tc.code {
			t.Errorf("case %d: expected status %d, got %d", i, tc.code, rec.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Errorf("case %d: bad error body: %v", i, err)
		}
	}
}
