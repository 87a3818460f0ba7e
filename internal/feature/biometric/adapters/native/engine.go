// Package native はcgoを使わない純粋なGoの画像処理エンジンを提供します。
package native

import (
	"log/slog"

	"safari_backend/internal/feature/biometric/usecase"
	"safari_backend/internal/platform/imageproc"
)

// Name はレジストリに登録するエンジン名です。
const Name = "native"

const (
	defaultBlockSize     = 11
	defaultC             = 2.0
	defaultCloseKernel   = 5
	defaultFASTThreshold = 20
)

// Options はエンジンの二値化パラメータです。値はそのまま使われるため、
// 既定値が必要な場合は DefaultOptions から始めてください。
type Options struct {
	BlockSize     int
	C             float64
	FASTThreshold int
}

// DefaultOptions は既定の二値化パラメータを返します。
func DefaultOptions() Options {
	return Options{
		BlockSize:     defaultBlockSize,
		C:             defaultC,
		FASTThreshold: defaultFASTThreshold,
	}
}

// Engine はimageprocの基本操作を組み合わせたusecase.Engineの実装です。
type Engine struct {
	opts        Options
	closeKernel imageproc.Kernel
}

var _ usecase.Engine = (*Engine)(nil)

// New はEngineを生成します。C=0 のようなゼロ値も指定どおりに扱います。
func New(opts Options) *Engine {
	return &Engine{
		opts:        opts,
		closeKernel: imageproc.EllipseKernel(defaultCloseKernel),
	}
}

// Options はエンジンが使用しているパラメータを返します。
func (e *Engine) Options() Options {
	return e.opts
}

// Factory はレジストリに登録するためのファクトリを返します。
func Factory(opts Options) usecase.EngineFactory {
	return func() (usecase.Engine, error) {
		return New(opts), nil
	}
}

// Preprocess は平坦化、5×5楕円のクロージング、5×5ガウシアン平滑化を順に適用します。
func (e *Engine) Preprocess(g *imageproc.Grid) *imageproc.Grid {
	out := imageproc.EqualizeHist(g)
	out = imageproc.Close(out, e.closeKernel)
	return imageproc.GaussianBlur5(out)
}

// Skeletonize は適応的二値化（失敗時は大津の二値化）の後に細線化します。
func (e *Engine) Skeletonize(g *imageproc.Grid) (*imageproc.BinaryMap, error) {
	if g.Width < 3 || g.Height < 3 {
		return nil, imageproc.ErrGridTooSmall
	}

	bin, err := imageproc.AdaptiveThresholdGaussianInv(g, e.opts.BlockSize, e.opts.C)
	if err != nil {
		slog.Warn("adaptive threshold unavailable, falling back to otsu", "error", err, "block_size", e.opts.BlockSize)
		bin = imageproc.OtsuThresholdInv(g)
	}
	return imageproc.Thin(bin), nil
}

// DetectKeypoints はFASTコーナーの数を返します。
func (e *Engine) DetectKeypoints(g *imageproc.Grid) int {
	return imageproc.CountKeypoints(g, e.opts.FASTThreshold)
}
