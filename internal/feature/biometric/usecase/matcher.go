package usecase

import (
	"math"

	"safari_backend/internal/feature/biometric/domain/entity"
)

const (
	// DefaultTolerancePx は対応点とみなす最大ユークリッド距離です。
	DefaultTolerancePx = 12.0
	// DefaultMatchThreshold は一致と判定する信頼度の下限です。
	DefaultMatchThreshold = 60.0
	// DefaultDegradedConfidence はスケルトン抽出に失敗したときに返す固定の低信頼度です。
	DefaultDegradedConfidence = 10.0
)

// Matcher は貪欲法による特徴点照合を行います。
//
// 照合は登録済みテンプレートの順に走査するため非対称です。
// Match(A, B) と Match(B, A) が一致するとは限りません。
type Matcher struct {
	TolerancePx        float64
	Threshold          float64
	DegradedConfidence float64
}

// NewMatcher はデフォルト定数を持つMatcherを返します。
func NewMatcher() Matcher {
	return Matcher{
		TolerancePx:        DefaultTolerancePx,
		Threshold:          DefaultMatchThreshold,
		DegradedConfidence: DefaultDegradedConfidence,
	}
}

// Match は候補の特徴点集合と登録済みテンプレートを照合します。
// どちらかが空の場合は {false, 0} を返します。
func (m Matcher) Match(candidate []entity.Minutia, stored entity.Template) entity.MatchResult {
	if len(candidate) == 0 || stored.Empty() {
		return entity.MatchResult{}
	}

	used := make([]bool, len(candidate))
	matched := 0
	for _, s := range stored.Minutiae {
		for j, c := range candidate {
			if used[j] || c.Kind != s.Kind {
				continue
			}
			if math.Hypot(float64(s.X-c.X), float64(s.Y-c.Y)) <= m.TolerancePx {
				used[j] = true
				matched++
				break
			}
		}
	}

	denom := math.Max(1, float64(len(stored.Minutiae)+len(candidate))/2)
	confidence := math.Min(100, float64(matched)/denom*100)
	return entity.MatchResult{
		IsMatch:    confidence >= m.Threshold,
		Confidence: confidence,
	}
}

// MatchDegraded はスケルトン抽出に失敗した候補画像の縮退経路です。
// 精度のある二次照合ではなく、常に不一致の低信頼度を返します。
func (m Matcher) MatchDegraded(keypoints int, stored entity.Template) entity.MatchResult {
	if keypoints <= 0 || stored.Empty() {
		return entity.MatchResult{}
	}
	return entity.MatchResult{IsMatch: false, Confidence: m.DegradedConfidence}
}
