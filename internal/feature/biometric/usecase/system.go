package usecase

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/blake2b"

	"safari_backend/internal/feature/biometric/domain"
	"safari_backend/internal/feature/biometric/domain/entity"
	"safari_backend/internal/platform/imageproc"
)

// DefaultEnrollConfidence は登録成功時に返す名目上の信頼度です。
const DefaultEnrollConfidence = 95.0

// 記録される結果ラベル
const (
	OutcomeSuccess           = "success"
	OutcomeDecodeError       = "decode_error"
	OutcomeEngineUnavailable = "engine_unavailable"
	OutcomeSkeletonError     = "skeleton_error"
	OutcomeNoMinutiae        = "no_minutiae"
	OutcomeMatch             = "match"
	OutcomeNoMatch           = "no_match"
	OutcomeDegraded          = "degraded"
)

// Recorder は登録・照合の結果を計測します。
type Recorder interface {
	ObserveEnroll(outcome string)
	ObserveVerify(outcome string, confidence float64)
	ObserveEngineInitFailure()
}

type nopRecorder struct{}

func (nopRecorder) ObserveEnroll(string) {}
func (nopRecorder) ObserveVerify(string, float64) {}
func (nopRecorder) ObserveEngineInitFailure() {}

// Option はBiometricSystemの設定を変更します。
type Option func(*BiometricSystem)

// WithMatcher は照合に使用するMatcherを設定します。
func WithMatcher(m Matcher) Option {
	return func(s *BiometricSystem) { s.matcher = m }
}

// WithEnrollConfidence は登録成功時の信頼度を設定します。
func WithEnrollConfidence(c float64) Option {
	return func(s *BiometricSystem) { s.enrollConfidence = c }
}

// WithMaxImagePixels はデコードを許可する画素数の上限を設定します。
func WithMaxImagePixels(n int) Option {
	return func(s *BiometricSystem) { s.maxPixels = n }
}

// WithRecorder は計測先を設定します。
func WithRecorder(r Recorder) Option {
	return func(s *BiometricSystem) {
		if r != nil {
			s.recorder = r
		}
	}
}

// BiometricSystem は指紋の登録・照合の窓口です。
//
// Engineは初回の Enroll/Verify/Identify 呼び出し時に一度だけ構築され、以降は再利用されます。
// 構築に失敗した場合、そのエラーは保持され domain.ErrMissingDependency として返され続けます。
// 1つのインスタンスを複数のゴルーチンから同時に呼び出しても安全です。
type BiometricSystem struct {
	factory          EngineFactory
	matcher          Matcher
	enrollConfidence float64
	maxPixels        int
	recorder         Recorder

	once      sync.Once
	eng       Engine
	engineErr error
}

// NewBiometricSystem はBiometricSystemを生成します。Engineはここでは構築しません。
func NewBiometricSystem(factory EngineFactory, opts ...Option) *BiometricSystem {
	s := &BiometricSystem{
		factory:          factory,
		matcher:          NewMatcher(),
		enrollConfidence: DefaultEnrollConfidence,
		maxPixels:        imageproc.DefaultMaxPixels,
		recorder:         nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// engine は遅延構築されたEngineを返します。
func (s *BiometricSystem) engine() (Engine, error) {
	s.once.Do(func() {
		if s.factory == nil {
			s.engineErr = fmt.Errorf("%w: no engine factory configured", domain.ErrMissingDependency)
		} else if eng, err := s.factory(); err != nil {
			s.engineErr = fmt.Errorf("%w: %w", domain.ErrMissingDependency, err)
		} else if eng == nil {
			s.engineErr = fmt.Errorf("%w: engine factory returned nil", domain.ErrMissingDependency)
		} else {
			s.eng = eng
		}
		if s.engineErr != nil {
			s.recorder.ObserveEngineInitFailure()
			slog.Error("failed to initialize biometric engine", "error", s.engineErr)
		}
	})
	return s.eng, s.engineErr
}

// Ready はEngineを構築し、利用できない場合は domain.ErrMissingDependency を返します。
// ヘルスチェックから呼ばれます。
func (s *BiometricSystem) Ready() error {
	_, err := s.engine()
	return err
}

// prepare は画像をデコードし、Engineを取得して前処理まで行います。
func (s *BiometricSystem) prepare(image string) (Engine, *imageproc.Grid, error) {
	grid, err := imageproc.DecodeBase64(image, s.maxPixels)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	eng, err := s.engine()
	if err != nil {
		return nil, nil, err
	}
	return eng, eng.Preprocess(grid), nil
}

// Enroll は画像から特徴点を抽出し、保存可能なテンプレートを返します。
// 失敗しても例外的な経路はなく、EnrollResult.Err に理由が入ります。
func (s *BiometricSystem) Enroll(image, label string) entity.EnrollResult {
	res := s.enroll(image, label)
	outcome := OutcomeSuccess
	if res.Err != nil {
		outcome = outcomeOf(res.Err)
		slog.Warn("fingerprint enrollment failed", "label", label, "outcome", outcome, "error", res.Err)
	}
	s.recorder.ObserveEnroll(outcome)
	return res
}

func (s *BiometricSystem) enroll(image, label string) entity.EnrollResult {
	fail := func(err error) entity.EnrollResult {
		return entity.EnrollResult{Label: label, Err: err}
	}

	eng, pre, err := s.prepare(image)
	if err != nil {
		return fail(err)
	}
	skel, err := eng.Skeletonize(pre)
	if err != nil {
		return fail(fmt.Errorf("skeleton extraction failed: %w", err))
	}
	minutiae, err := ExtractMinutiae(skel)
	if err != nil {
		return fail(err)
	}

	return entity.EnrollResult{
		Success: true,
		Label:   label,
		Template: entity.Template{
			Minutiae:    minutiae,
			ImageDigest: Digest(pre),
		},
		Confidence: s.enrollConfidence,
	}
}

// Verify は画像と登録済みテンプレートを照合します。
// いかなる内部エラーも返さず、失敗時は (false, 0) に縮退します。
func (s *BiometricSystem) Verify(image string, stored entity.Template) (bool, float64) {
	res, outcome := s.verify(image, stored)
	s.recorder.ObserveVerify(outcome, res.Confidence)
	return res.IsMatch, res.Confidence
}

func (s *BiometricSystem) verify(image string, stored entity.Template) (entity.MatchResult, string) {
	eng, pre, err := s.prepare(image)
	if err != nil {
		slog.Warn("fingerprint verification failed", "error", err)
		return entity.MatchResult{}, outcomeOf(err)
	}

	skel, err := eng.Skeletonize(pre)
	if err != nil {
		slog.Warn("skeleton extraction failed, using degraded keypoint path", "error", err)
		return s.matcher.MatchDegraded(eng.DetectKeypoints(pre), stored), OutcomeDegraded
	}

	minutiae, err := ExtractMinutiae(skel)
	if err != nil {
		slog.Warn("fingerprint verification failed", "error", err)
		return entity.MatchResult{}, OutcomeNoMinutiae
	}

	res := s.matcher.Match(minutiae, stored)
	if res.IsMatch {
		return res, OutcomeMatch
	}
	return res, OutcomeNoMatch
}

// Identify は1回の抽出結果をギャラリー内の全テンプレートと照合し、最も信頼度の高い一致のインデックスを返します。
// 一致がない場合は -1 と、観測した最大の信頼度（IsMatch=false）を返します。
// 信頼度が同じ場合は先頭に近いものが優先されます。
func (s *BiometricSystem) Identify(image string, gallery []entity.Template) (int, entity.MatchResult) {
	idx, res, outcome := s.identify(image, gallery)
	s.recorder.ObserveVerify(outcome, res.Confidence)
	return idx, res
}

func (s *BiometricSystem) identify(image string, gallery []entity.Template) (int, entity.MatchResult, string) {
	eng, pre, err := s.prepare(image)
	if err != nil {
		slog.Warn("fingerprint identification failed", "error", err)
		return -1, entity.MatchResult{}, outcomeOf(err)
	}
	skel, err := eng.Skeletonize(pre)
	if err != nil {
		slog.Warn("fingerprint identification failed", "error", err)
		return -1, entity.MatchResult{}, OutcomeSkeletonError
	}
	minutiae, err := ExtractMinutiae(skel)
	if err != nil {
		slog.Warn("fingerprint identification failed", "error", err)
		return -1, entity.MatchResult{}, OutcomeNoMinutiae
	}

	bestIdx := -1
	var best, bestMiss entity.MatchResult
	for i, tpl := range gallery {
		res := s.matcher.Match(minutiae, tpl)
		switch {
		case res.IsMatch && (bestIdx < 0 || res.Confidence > best.Confidence):
			bestIdx, best = i, res
		case !res.IsMatch && res.Confidence > bestMiss.Confidence:
			bestMiss = res
		}
	}
	if bestIdx < 0 {
		return -1, bestMiss, OutcomeNoMatch
	}
	return bestIdx, best, OutcomeMatch
}

// Digest は前処理済み画素のBLAKE2b-128ダイジェストを16進文字列で返します。
func Digest(g *imageproc.Grid) string {
	h, err := blake2b.New(16, nil)
	if err != nil {
		// サイズ16・鍵なしでは発生しない
		panic(err)
	}
	h.Write(g.Pix)
	return hex.EncodeToString(h.Sum(nil))
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrDecode):
		return OutcomeDecodeError
	case errors.Is(err, domain.ErrMissingDependency):
		return OutcomeEngineUnavailable
	case errors.Is(err, domain.ErrNoMinutiae):
		return OutcomeNoMinutiae
	default:
		return OutcomeSkeletonError
	}
}
