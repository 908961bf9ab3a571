package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/soundmirror/constellate/internal/visualize"
	"github.com/soundmirror/constellate/pkg/constellate"
	"github.com/soundmirror/constellate/pkg/constellate/fingerprint"
	"github.com/soundmirror/constellate/pkg/logger"
)

// Global flags
var (
	cachePath  string
	tempDir    string
	sampleRate int
)

func init() {
	flag.StringVar(&cachePath, "cache", getEnvOrDefault("CONSTELLATE_CACHE_PATH", ""), "Path to the fingerprint cache (SQLite); empty disables caching")
	flag.StringVar(&tempDir, "temp", getEnvOrDefault("CONSTELLATE_TEMP_DIR", "/tmp"), "Directory for temporary resampled audio")
	flag.IntVar(&sampleRate, "rate", 16000, "Audio sample rate the fingerprinting core operates at")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// createService creates a new Service with the configured options.
func createService() (*constellate.Service, error) {
	return constellate.NewService(
		constellate.WithCachePath(cachePath),
		constellate.WithTempDir(tempDir),
		constellate.WithConfiguration(fingerprint.DefaultConfiguration(fingerprint.WithSampleRate(sampleRate))),
		constellate.WithLogger(logger.Component("service")),
	)
}

func main() {
	log := logger.GetLogger()

	flag.Parse()
	os.Args = append([]string{os.Args[0]}, flag.Args()...)

	printBanner()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	log.Infof("Executing command: %s", command)

	switch command {
	case "align":
		handleAlign()
	case "fingerprint":
		handleFingerprint()
	case "spectrogram":
		handleSpectrogram()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printBanner() {
	banner := `
  ____                _       _ _       _
 / ___|___  _ __  ___| |_ ___| | | __ _| |_ ___
| |   / _ \| '_ \/ __| __/ _ \ | |/ _' | __/ _ \
| |__| (_) | | | \__ \ ||  __/ | | (_| | ||  __/
 \____\___/|_| |_|___/\__\___|_|_|\__,_|\__\___|

        Audio Landmark Alignment CLI
`
	fmt.Println(banner)
}

func handleAlign() {
	log := logger.Component("align")

	if len(os.Args) < 4 {
		fmt.Println("Usage: constellate align <reference_file> <sample_file>")
		os.Exit(1)
	}

	referencePath := os.Args[2]
	samplePath := os.Args[3]
	log.Infof("Aligning %s against %s", samplePath, referencePath)

	fmt.Println("\n🔧 Initializing service...")
	svc, err := createService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	fmt.Println("🎵 Fingerprinting both clips and aligning...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	alignment, err := svc.Align(ctx, referencePath, samplePath)
	if err != nil {
		fmt.Printf("\n❌ Failed to align clips: %v\n", err)
		log.Errorf("Align failed: %v", err)
		os.Exit(1)
	}

	offset := constellate.RoundOffset(alignment.EstimatedTimeOffset)

	fmt.Println("\n✅ Alignment complete!")
	fmt.Printf("   Estimated offset: %+.3fs\n", offset)
	if offset >= 0 {
		fmt.Printf("   Sample appears %.3fs later than reference\n", offset)
	} else {
		fmt.Printf("   Sample appears %.3fs earlier than reference\n", -offset)
	}
	log.Infof("Alignment offset: %.4fs", offset)
}

func handleFingerprint() {
	log := logger.Component("fingerprint")

	if len(os.Args) < 3 {
		fmt.Println("Usage: constellate fingerprint <audio_file>")
		os.Exit(1)
	}

	audioPath := os.Args[2]
	log.Infof("Fingerprinting %s", audioPath)

	fmt.Println("\n🔧 Initializing service...")
	svc, err := createService()
	if err != nil {
		fmt.Printf("❌ Failed to create service: %v\n", err)
		log.Errorf("Service initialization failed: %v", err)
		os.Exit(1)
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fp, err := svc.Fingerprint(ctx, audioPath)
	if err != nil {
		fmt.Printf("\n❌ Failed to fingerprint file: %v\n", err)
		log.Errorf("Fingerprint failed: %v", err)
		os.Exit(1)
	}

	fmt.Println("\n✅ Fingerprint built!")
	fmt.Printf("   Patterns:    %d\n", len(fp.Patterns()))
	fmt.Printf("   Sample rate: %d Hz\n", fp.Configuration().SampleRate)
	fmt.Printf("   STFT:        segment=%d overlap=%d\n", fp.Configuration().STFT.Segment, fp.Configuration().STFT.Overlap)
	log.Infof("Fingerprint has %d patterns", len(fp.Patterns()))
}

func handleSpectrogram() {
	log := logger.Component("spectrogram")

	if len(os.Args) < 4 {
		fmt.Println("Usage: constellate spectrogram <audio_file> <output.png>")
		os.Exit(1)
	}

	audioPath := os.Args[2]
	outputPath := os.Args[3]
	log.Infof("Rendering spectrogram for %s -> %s", audioPath, outputPath)

	fmt.Println("\n🖼️  Rendering spectrogram...")

	if err := visualize.RenderFile(audioPath, outputPath, visualize.DefaultOptions()); err != nil {
		fmt.Printf("\n❌ Failed to render spectrogram: %v\n", err)
		log.Errorf("RenderFile failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("\n✅ Wrote spectrogram to %s\n", outputPath)
	log.Infof("Spectrogram written to %s", outputPath)
}

func printUsage() {
	fmt.Println("constellate - Audio Landmark Alignment CLI")
	fmt.Println("\nGlobal Options:")
	fmt.Println("  --cache <path>     Path to fingerprint cache (env: CONSTELLATE_CACHE_PATH, default: disabled)")
	fmt.Println("  --temp <dir>       Temporary directory for resampled audio (env: CONSTELLATE_TEMP_DIR, default: /tmp)")
	fmt.Println("  --rate <hz>        Sample rate the fingerprinting core operates at (default: 16000)")
	fmt.Println("\nUsage:")
	fmt.Println("  constellate [global-options] align <reference_file> <sample_file>")
	fmt.Println("  constellate [global-options] fingerprint <audio_file>")
	fmt.Println("  constellate spectrogram <audio_file> <output.png>")
	fmt.Println("\nExamples:")
	fmt.Println("  # Estimate how far a clip is offset from a reference")
	fmt.Println("  constellate --cache fp.sqlite3 align reference.wav sample.wav")
	fmt.Println()
	fmt.Println("  # Inspect a fingerprint without aligning")
	fmt.Println("  constellate fingerprint clip.wav")
	fmt.Println()
	fmt.Println("  # Render a debug spectrogram PNG")
	fmt.Println("  constellate spectrogram clip.wav clip.png")
}
