package main

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
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

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything it printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	real := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = real }()

	fn()

	w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("reading captured output: %v", err)
	}
	return buf.String()
}

// TestHandleAlignEndToEnd drives the align subcommand exactly as
// main() dispatches it — through os.Args, createService, and
// svc.Align — on a known-shift pair of synthesized clips, the smoke
// test promised alongside the server's.
func TestHandleAlignEndToEnd(t *testing.T) {
	dir := t.TempDir()
	refPath := filepath.Join(dir, "ref.wav")
	samplePath := filepath.Join(dir, "sample.wav")

	writeShiftedTones(t, refPath, 8, 0, sampleRate)
	writeShiftedTones(t, samplePath, 8, 1.5, sampleRate)

	os.Args = []string{"constellate", "align", refPath, samplePath}

	output := captureStdout(t, handleAlign)

	if !strings.Contains(output, "Alignment complete") {
		t.Fatalf("expected successful alignment output, got:\n%s", output)
	}
	if !strings.Contains(output, "later than reference") {
		t.Fatalf("expected the shifted sample to be reported as later than the reference, got:\n%s", output)
	}
}
