//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/soundmirror/constellate/pkg/constellate"
	"github.com/soundmirror/constellate/pkg/constellate/fingerprint"
)

func writeShiftedTones(t *testing.T, path string, seconds, leadingSilenceSeconds float64, sampleRate int) {
	t.Helper()

	n := int(seconds * float64(sampleRate))
	lead := int(leadingSilenceSeconds * float64(sampleRate))
	samples := make([]int, lead+n)
	tones := []float64{440, 880, 1320}
	for i := 0; i < n; i++ {
		tt := float64(i) / float64(sampleRate)
		v := 0.0
		for ti, freq := range tones {
			v += math.Sin(2*math.Pi*freq*tt) / float64(ti+1)
		}
		samples[lead+i] = int(v * 0.3 * 32767)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:   samples,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("closing fixture: %v", err)
	}
}

// TestHandleAlignEndToEnd drives POST /api/align through the full
// mux (CORS + logging middleware included) against a known-shift pair
// of synthesized clips, the smoke test SPEC_FULL.md promises for the
// server alongside the CLI's.
func TestHandleAlignEndToEnd(t *testing.T) {
	dir := t.TempDir()
	refPath := filepath.Join(dir, "ref.wav")
	samplePath := filepath.Join(dir, "sample.wav")

	rate := 16000
	writeShiftedTones(t, refPath, 8, 0, rate)
	writeShiftedTones(t, samplePath, 8, 2, rate)

	service, err := constellate.NewService(
		constellate.WithConfiguration(fingerprint.DefaultConfiguration(fingerprint.WithSampleRate(rate))),
	)
	if err != nil {
		t.Fatalf("creating service: %v", err)
	}
	defer service.Close()

	server := NewServer(service, &ServerConfig{
		Port:           8080,
		TempDir:        dir,
		SampleRate:     rate,
		AllowedOrigins: []string{"*"},
	})
	handler := server.setupRoutes()

	body, _ := json.Marshal(AlignRequest{ReferencePath: refPath, SamplePath: samplePath})
	req := httptest.NewRequest("POST", "/api/align", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AlignResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	finest := fingerprint.DefaultConfiguration(fingerprint.WithSampleRate(rate)).FinestTimeResolution()
	if math.Abs(resp.EstimatedTimeOffset-2.0) > finest {
		t.Fatalf("expected offset ≈ 2.0s (±%v), got %v", finest, resp.EstimatedTimeOffset)
	}
}

// TestHandleHealth smoke-tests the health endpoint through the mux.
func TestHandleHealth(t *testing.T) {
	server := NewServer(nil, &ServerConfig{AllowedOrigins: []string{"*"}})
	handler := server.setupRoutes()

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
