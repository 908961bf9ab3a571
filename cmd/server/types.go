package main

import "fmt"

// AlignRequest is the request body for POST /api/align. ReferencePath
// and SamplePath must be filesystem paths reachable by the server
// process; the HTTP boundary intentionally doesn't accept raw audio
// bytes here (multipart upload is left to a future iteration).
type AlignRequest struct {
	ReferencePath string `json:"reference_path"`
	SamplePath    string `json:"sample_path"`
}

// Validate checks if the request is valid.
func (r *AlignRequest) Validate() error {
	if r.ReferencePath == "" {
		return fmt.Errorf("reference_path is required")
	}
	if r.SamplePath == "" {
		return fmt.Errorf("sample_path is required")
	}
	return nil
}

// AlignResponse is the response for a successful alignment.
type AlignResponse struct {
	EstimatedTimeOffset float64 `json:"estimated_time_offset_seconds"`
}

// FingerprintResponse summarizes a fingerprint without exposing the
// raw pattern map, which has no stable JSON shape outside this process.
type FingerprintResponse struct {
	PatternCount int `json:"pattern_count"`
	SampleRate   int `json:"sample_rate"`
}

// MetricsResponse reports server-level operational counters.
type MetricsResponse struct {
	Status      string `json:"status"`
	CachePath   string `json:"cache_path"`
	SampleRate  int    `json:"sample_rate"`
	AlignCount  uint64 `json:"align_count"`
	ErrorCount  uint64 `json:"error_count"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
