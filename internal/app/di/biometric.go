// Package di provides dependency injection factories for creating application components.
package di

import (
	"safari_backend/internal/feature/biometric/adapters/native"
	"safari_backend/internal/feature/biometric/usecase"
	"safari_backend/internal/platform/config"
)

// NewEngineRegistry registers every processing engine built into the binary.
func NewEngineRegistry(t config.Tuning) *usecase.EngineRegistry {
	reg := usecase.NewEngineRegistry()
	reg.Register(native.Name, native.Factory(native.Options{
		BlockSize:     t.BlockSize,
		C:             t.C,
		FASTThreshold: t.FASTThreshold,
	}))
	return reg
}

// NewBiometricSystem creates the fingerprint facade for the engine named in t.
// An unknown engine name is not an error here; it surfaces on first use as
// an unavailable-processing failure.
func NewBiometricSystem(t config.Tuning, rec usecase.Recorder) *usecase.BiometricSystem {
	return usecase.NewBiometricSystem(
		NewEngineRegistry(t).Factory(t.Engine),
		usecase.WithMatcher(usecase.Matcher{
			TolerancePx:        t.TolerancePx,
			Threshold:          t.MatchThreshold,
			DegradedConfidence: t.DegradedConfidence,
		}),
		usecase.WithEnrollConfidence(t.EnrollConfidence),
		usecase.WithMaxImagePixels(t.MaxImagePixels),
		usecase.WithRecorder(rec),
	)
}
