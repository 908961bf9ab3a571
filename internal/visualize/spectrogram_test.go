package visualize

import (
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeTestWAV(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	defer f.Close()

	sampleRate := 8000
	samples := make([]int, sampleRate) // 1 second
	for i := range samples {
		samples[i] = (i % 64) - 32
	}

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

func TestRenderFileProducesPNG(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tone.wav")
	output := filepath.Join(dir, "tone.png")

	writeTestWAV(t, input)

	err := RenderFile(input, output, Options{Width: 256, Height: 64})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(output)
	if err != nil {
		t.Fatalf("expected output PNG to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("expected non-empty PNG output")
	}
}

func TestRenderFileRejectsMissingInput(t *testing.T) {
	dir := t.TempDir()
	err := RenderFile(filepath.Join(dir, "missing.wav"), filepath.Join(dir, "out.png"), DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}
