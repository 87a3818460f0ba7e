package imageproc

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBlockSize は適応的二値化の窓サイズが3以上の奇数でない場合に返されます。
var ErrInvalidBlockSize = errors.New("adaptive threshold block size must be an odd number >= 3")

// AdaptiveThresholdGaussianInv はガウシアン重み付きの局所平均で反転二値化を行います。
// src <= mean - c の画素（暗いリッジ）を1とします。
func AdaptiveThresholdGaussianInv(g *Grid, blockSize int, c float64) (*BinaryMap, error) {
	if blockSize < 3 || blockSize%2 == 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBlockSize, blockSize)
	}

	mean := separableBlur(g, gaussianKernel(blockSize))
	delta := int(math.Floor(c))

	out := NewBinaryMap(g.Width, g.Height)
	for i, v := range g.Pix {
		if int(v)-int(mean[i]) <= -delta {
			out.Pix[i] = 1
		}
	}
	return out, nil
}

// OtsuThreshold はクラス間分散を最大化する大域しきい値を返します。
func OtsuThreshold(g *Grid) uint8 {
	var hist [256]int
	for _, v := range g.Pix {
		hist[v]++
	}

	total := len(g.Pix)
	var sum float64
	for i, h := range hist {
		sum += float64(i * h)
	}

	var (
		sumB float64
		wB   int
		best = -1.0
		t    int
	)
	for i, h := range hist {
		wB += h
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(i * h)
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			t = i
		}
	}
	return uint8(t)
}

// OtsuThresholdInv は大津の方法による反転二値化です。失敗することはありません。
func OtsuThresholdInv(g *Grid) *BinaryMap {
	t := OtsuThreshold(g)
	out := NewBinaryMap(g.Width, g.Height)
	for i, v := range g.Pix {
		if v <= t {
			out.Pix[i] = 1
		}
	}
	return out
}

// gaussianKernel はn点の正規化済み1次元ガウシアン係数を返します。
// σは窓サイズから 0.3*((n-1)/2 - 1) + 0.8 で導出します。
func gaussianKernel(n int) []float64 {
	sigma := 0.3*(float64(n-1)*0.5-1) + 0.8
	scale := -0.5 / (sigma * sigma)
	k := make([]float64, n)
	var sum float64
	for i := range k {
		x := float64(i - (n-1)/2)
		k[i] = math.Exp(scale * x * x)
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// separableBlur は水平・垂直の2パスで畳み込みます。境界は端の画素を複製します。
func separableBlur(g *Grid, k []float64) []uint8 {
	w, h := g.Width, g.Height
	r := len(k) / 2
	tmp := make([]float64, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for i, kv := range k {
				xx := clampInt(x+i-r, 0, w-1)
				acc += kv * float64(g.Pix[y*w+xx])
			}
			tmp[y*w+x] = acc
		}
	}

	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for i, kv := range k {
				yy := clampInt(y+i-r, 0, h-1)
				acc += kv * tmp[yy*w+x]
			}
			out[y*w+x] = uint8(math.Min(math.Max(math.Round(acc), 0), 255))
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
