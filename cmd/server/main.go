//go:build !js && !wasm
// +build !js,!wasm

package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/soundmirror/constellate/pkg/constellate"
	"github.com/soundmirror/constellate/pkg/constellate/fingerprint"
	"github.com/soundmirror/constellate/pkg/logger"
)

var (
	port           int
	cachePath      string
	tempDir        string
	sampleRate     int
	allowedOrigins string
)

func init() {
	flag.IntVar(&port, "port", 8080, "HTTP server port")
	flag.StringVar(&cachePath, "cache", getEnvOrDefault("CONSTELLATE_CACHE_PATH", ""), "Path to fingerprint cache (SQLite); empty disables caching")
	flag.StringVar(&tempDir, "temp", getEnvOrDefault("CONSTELLATE_TEMP_DIR", "/tmp"), "Temporary directory for resampled audio")
	flag.IntVar(&sampleRate, "rate", 16000, "Audio sample rate the fingerprinting core operates at")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	flag.Parse()

	var origins []string
	if allowedOrigins == "*" {
		origins = []string{"*"}
	} else {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	service, err := constellate.NewService(
		constellate.WithCachePath(cachePath),
		constellate.WithTempDir(tempDir),
		constellate.WithConfiguration(fingerprint.DefaultConfiguration(fingerprint.WithSampleRate(sampleRate))),
		constellate.WithLogger(logger.Component("service")),
	)
	if err != nil {
		logger.GetLogger().Fatalf("Failed to create service: %v", err)
	}
	defer service.Close()

	config := &ServerConfig{
		Port:           port,
		CachePath:      cachePath,
		TempDir:        tempDir,
		SampleRate:     sampleRate,
		AllowedOrigins: origins,
	}

	server := NewServer(service, config)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
