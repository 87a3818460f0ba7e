// Package entity defines the domain entities for the biometric feature.
package entity

import "fmt"

// Kind classifies a minutia.
type Kind string

const (
	// KindEnding is a ridge ending (crossing number 1).
	KindEnding Kind = "ending"
	// KindBifurcation is a ridge bifurcation (crossing number 3).
	KindBifurcation Kind = "bifurcation"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindEnding || k == KindBifurcation
}

// Minutia is a classified feature point in image pixel coordinates.
type Minutia struct {
	X    int  `json:"x"`
	Y    int  `json:"y"`
	Kind Kind `json:"type"`
}

func (m Minutia) String() string {
	return fmt.Sprintf("%s(%d,%d)", m.Kind, m.X, m.Y)
}
