//go:build js && wasm
// +build js,wasm

package main

import (
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/soundmirror/constellate/pkg/constellate/fingerprint"
)

// Error codes returned to JavaScript.
const (
	ErrorNone = iota
	ErrorInvalidArgs
	ErrorProcessing
	ErrorNoPeaksOrPatterns
	ErrorConfigMismatch
	ErrorNoMatches
)

// patternEntry is the JSON-transportable form of a single
// (Pattern, SamplePosition) pair; fingerprint.Patterns is a Go map
// keyed on a struct, which encoding/json can't serialize directly.
type patternEntry struct {
	FrequencyA    int32 `json:"frequencyA"`
	FrequencyB    int32 `json:"frequencyB"`
	PositionDelta int32 `json:"positionDelta"`
	Position      int32 `json:"position"`
}

// fingerprintDTO is what crosses the JS boundary in either direction.
type fingerprintDTO struct {
	Configuration fingerprint.Configuration `json:"configuration"`
	Patterns      []patternEntry            `json:"patterns"`
}

func toDTO(fp *fingerprint.Fingerprint) fingerprintDTO {
	patterns := fp.Patterns()
	entries := make([]patternEntry, 0, len(patterns))
	for p, pos := range patterns {
		entries = append(entries, patternEntry{
			FrequencyA:    int32(p.FrequencyA),
			FrequencyB:    int32(p.FrequencyB),
			PositionDelta: int32(p.PositionDelta),
			Position:      int32(pos),
		})
	}
	return fingerprintDTO{Configuration: fp.Configuration(), Patterns: entries}
}

func fromDTO(dto fingerprintDTO) *fingerprint.Fingerprint {
	patterns := make(fingerprint.Patterns, len(dto.Patterns))
	for _, e := range dto.Patterns {
		patterns[fingerprint.Pattern{
			FrequencyA:    fingerprint.Frequency(e.FrequencyA),
			FrequencyB:    fingerprint.Frequency(e.FrequencyB),
			PositionDelta: fingerprint.SamplePosition(e.PositionDelta),
		}] = fingerprint.SamplePosition(e.Position)
	}
	return fingerprint.FromParts(dto.Configuration, patterns)
}

// computeFingerprint(samples, sampleRate, configJSON) builds a
// Fingerprint from raw mono float samples and returns its JSON-encoded
// DTO. configJSON may be the empty string to use the default
// Configuration with sampleRate substituted in.
func computeFingerprint(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected at least 2 arguments: samples, sampleRate[, configJSON]")
	}

	samplesJS := args[0]
	sampleRateJS := args[1]

	if samplesJS.Type() != js.TypeObject {
		return makeErrorResponse(ErrorInvalidArgs, "samples must be an Array or Float64Array")
	}
	if sampleRateJS.Type() != js.TypeNumber {
		return makeErrorResponse(ErrorInvalidArgs, "sampleRate must be a number")
	}

	sampleRate := sampleRateJS.Int()
	if sampleRate <= 0 {
		return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("Invalid sample rate: %d", sampleRate))
	}

	length := samplesJS.Length()
	if length == 0 {
		return makeErrorResponse(ErrorInvalidArgs, "samples is empty")
	}

	samples := make([]float32, length)
	for i := 0; i < length; i++ {
		val := samplesJS.Index(i)
		if val.Type() != js.TypeNumber {
			return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("samples element %d is not a number", i))
		}
		samples[i] = float32(val.Float())
	}

	cfg := fingerprint.DefaultConfiguration(fingerprint.WithSampleRate(sampleRate))
	if len(args) >= 3 && args[2].Type() == js.TypeString {
		if raw := args[2].String(); raw != "" {
			if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
				return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("invalid configJSON: %v", err))
			}
		}
	}

	fp, err := fingerprint.New(samples, cfg)
	if err != nil {
		return makeErrorResponse(ErrorNoPeaksOrPatterns, err.Error())
	}

	encoded, err := json.Marshal(toDTO(fp))
	if err != nil {
		return makeErrorResponse(ErrorProcessing, fmt.Sprintf("failed to encode fingerprint: %v", err))
	}

	result := js.Global().Get("Object").New()
	result.Set("error", ErrorNone)
	result.Set("data", string(encoded))
	return result
}

// alignFingerprints(selfJSON, referenceJSON, optionsJSON) aligns two
// fingerprint DTOs produced by computeFingerprint and returns the
// estimated time offset of self relative to reference. optionsJSON may
// be the empty string to use DefaultFittingOptions.
func alignFingerprints(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected at least 2 arguments: selfJSON, referenceJSON[, optionsJSON]")
	}

	var selfDTO, referenceDTO fingerprintDTO
	if err := json.Unmarshal([]byte(args[0].String()), &selfDTO); err != nil {
		return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("invalid selfJSON: %v", err))
	}
	if err := json.Unmarshal([]byte(args[1].String()), &referenceDTO); err != nil {
		return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("invalid referenceJSON: %v", err))
	}

	options := fingerprint.DefaultFittingOptions()
	if len(args) >= 3 && args[2].Type() == js.TypeString {
		if raw := args[2].String(); raw != "" {
			if err := json.Unmarshal([]byte(raw), &options); err != nil {
				return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("invalid optionsJSON: %v", err))
			}
		}
	}

	self := fromDTO(selfDTO)
	reference := fromDTO(referenceDTO)

	alignment, err := fingerprint.Align(self, reference, options)
	if err != nil {
		code := ErrorProcessing
		switch err {
		case fingerprint.ErrFingerprintConfigurationMismatch:
			code = ErrorConfigMismatch
		case fingerprint.ErrNoMatchesFound:
			code = ErrorNoMatches
		}
		return makeErrorResponse(code, err.Error())
	}

	result := js.Global().Get("Object").New()
	result.Set("error", ErrorNone)
	result.Set("data", alignment.EstimatedTimeOffset)
	return result
}

func makeErrorResponse(errorCode int, message string) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("error", errorCode)
	result.Set("data", message)
	return result
}

func main() {
	console := js.Global().Get("console")
	if !console.IsUndefined() {
		console.Call("log", "🔧 constellate WASM module initializing...")
	}

	done := make(chan struct{})

	js.Global().Set("computeFingerprint", js.FuncOf(computeFingerprint))
	js.Global().Set("alignFingerprints", js.FuncOf(alignFingerprints))

	if !console.IsUndefined() {
		console.Call("log", "📝 computeFingerprint/alignFingerprints functions registered")
	}

	window := js.Global().Get("window")
	if !window.IsUndefined() {
		if !console.IsUndefined() {
			console.Call("log", "📤 Dispatching wasmReady event...")
		}
		eventInit := js.Global().Get("Object").New()
		event := js.Global().Get("CustomEvent").New("wasmReady", eventInit)
		window.Call("dispatchEvent", event)
		if !console.IsUndefined() {
			console.Call("log", "✅ wasmReady event dispatched")
		}
	} else {
		if !console.IsUndefined() {
			console.Call("error", "❌ window object is undefined!")
		}
	}

	if !console.IsUndefined() {
		console.Call("log", "✅ constellate WASM module loaded and ready")
	}

	<-done
}
