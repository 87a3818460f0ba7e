package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"safari_backend/internal/feature/biometric/domain/entity"
	"safari_backend/internal/feature/biometric/usecase"
)

// spacedEndings は30ピクセル間隔で並んだn個の端点を返します。
func spacedEndings(n int) []entity.Minutia {
	out := make([]entity.Minutia, n)
	for i := range out {
		out[i] = entity.Minutia{X: i * 30, Y: 0, Kind: entity.KindEnding}
	}
	return out
}

// unrelated は登録済みの点から十分離れたn個の点を返します。
func unrelated(n int) []entity.Minutia {
	out := make([]entity.Minutia, n)
	for i := range out {
		out[i] = entity.Minutia{X: 1000 + i*30, Y: 1000, Kind: entity.KindEnding}
	}
	return out
}

func TestMatcher_Match(t *testing.T) {
	stored := entity.Template{Minutiae: spacedEndings(10)}

	testCases := []struct {
		name      string
		candidate []entity.Minutia
		stored    entity.Template
		want      entity.MatchResult
	}{
		{
			name:      "empty candidate",
			candidate: nil,
			stored:    stored,
			want:      entity.MatchResult{},
		},
		{
			name:      "empty stored template",
			candidate: spacedEndings(3),
			stored:    entity.Template{},
			want:      entity.MatchResult{},
		},
		{
			name:      "six coincident of ten stored",
			candidate: spacedEndings(6),
			stored:    stored,
			// 6 / ((10+6)/2) = 75
			want: entity.MatchResult{IsMatch: true, Confidence: 75},
		},
		{
			name:      "four coincident and two unrelated",
			candidate: append(spacedEndings(4), unrelated(2)...),
			stored:    stored,
			// 4 / ((10+6)/2) = 50
			want: entity.MatchResult{IsMatch: false, Confidence: 50},
		},
		{
			name:      "exactly at threshold matches",
			candidate: append(spacedEndings(6), unrelated(4)...),
			stored:    stored,
			// 6 / ((10+10)/2) = 60
			want: entity.MatchResult{IsMatch: true, Confidence: 60},
		},
		{
			name:      "identical sets",
			candidate: spacedEndings(10),
			stored:    stored,
			want:      entity.MatchResult{IsMatch: true, Confidence: 100},
		},
	}

	m := usecase.NewMatcher()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Match(tc.candidate, tc.stored)
			assert.Equal(t, tc.want.IsMatch, got.IsMatch)
			assert.InDelta(t, tc.want.Confidence, got.Confidence, 1e-9)
		})
	}
}

func TestMatcher_MatchTolerance(t *testing.T) {
	stored := entity.Template{Minutiae: []entity.Minutia{{X: 0, Y: 0, Kind: entity.KindBifurcation}}}
	m := usecase.NewMatcher()

	testCases := []struct {
		name      string
		candidate entity.Minutia
		wantMatch bool
	}{
		{name: "12px apart", candidate: entity.Minutia{X: 12, Y: 0, Kind: entity.KindBifurcation}, wantMatch: true},
		{name: "12px vertical", candidate: entity.Minutia{X: 0, Y: -12, Kind: entity.KindBifurcation}, wantMatch: true},
		{name: "13px apart", candidate: entity.Minutia{X: 13, Y: 0, Kind: entity.KindBifurcation}, wantMatch: false},
		{name: "same place different kind", candidate: entity.Minutia{X: 0, Y: 0, Kind: entity.KindEnding}, wantMatch: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.Match([]entity.Minutia{tc.candidate}, stored)
			assert.Equal(t, tc.wantMatch, got.IsMatch)
			if tc.wantMatch {
				assert.Equal(t, 100.0, got.Confidence)
			} else {
				assert.Equal(t, 0.0, got.Confidence)
			}
		})
	}
}

func TestMatcher_OneToOne(t *testing.T) {
	// 2つの登録点が同じ1つの候補点を取り合う
	stored := entity.Template{Minutiae: []entity.Minutia{
		{X: 0, Y: 0, Kind: entity.KindEnding},
		{X: 4, Y: 0, Kind: entity.KindEnding},
	}}
	candidate := []entity.Minutia{{X: 2, Y: 0, Kind: entity.KindEnding}}

	got := usecase.NewMatcher().Match(candidate, stored)

	// 1 / ((2+1)/2)
	assert.InDelta(t, 100.0/1.5, got.Confidence, 1e-9)
	assert.True(t, got.IsMatch)
}

func TestMatcher_MatchDegraded(t *testing.T) {
	m := usecase.NewMatcher()
	stored := entity.Template{Minutiae: spacedEndings(3)}

	assert.Equal(t, entity.MatchResult{IsMatch: false, Confidence: 10}, m.MatchDegraded(42, stored))
	assert.Equal(t, entity.MatchResult{}, m.MatchDegraded(0, stored))
	assert.Equal(t, entity.MatchResult{}, m.MatchDegraded(42, entity.Template{}))
}
