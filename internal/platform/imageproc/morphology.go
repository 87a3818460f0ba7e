package imageproc

import (
	"image"
	"math"
)

// Kernel はモルフォロジー演算の構造要素です（アンカーは中心）。
type Kernel struct {
	Size    int
	offsets []image.Point
}

// EllipseKernel はsize×sizeに内接する楕円形の構造要素を返します。
// size=5の場合は上下の行が中央1画素のみの「角を落とした」形になります。
func EllipseKernel(size int) Kernel {
	if size < 1 {
		size = 1
	}
	r := size / 2
	k := Kernel{Size: size}
	if r == 0 {
		k.offsets = []image.Point{{}}
		return k
	}
	inv2 := 1.0 / float64(r*r)
	for dy := -r; dy <= r; dy++ {
		dyy := float64(dy)
		// 各行の半幅
		var half int
		if t := 1 - dyy*dyy*inv2; t > 0 {
			half = int(float64(r)*math.Sqrt(t) + 0.5)
		}
		for dx := -half; dx <= half; dx++ {
			k.offsets = append(k.offsets, image.Pt(dx, dy))
		}
	}
	return k
}

// Contains は構造要素が(dx, dy)を含むかを返します。
func (k Kernel) Contains(dx, dy int) bool {
	for _, o := range k.offsets {
		if o.X == dx && o.Y == dy {
			return true
		}
	}
	return false
}

// Dilate は構造要素内の最大値を取ります。グリッド外の画素は無視します。
func Dilate(g *Grid, k Kernel) *Grid {
	return morph(g, k, func(a, b uint8) bool { return b > a }, 0)
}

// Erode は構造要素内の最小値を取ります。グリッド外の画素は無視します。
func Erode(g *Grid, k Kernel) *Grid {
	return morph(g, k, func(a, b uint8) bool { return b < a }, 255)
}

// Close は膨張の後に収縮を行い、リッジ線の小さな途切れを埋めます。
func Close(g *Grid, k Kernel) *Grid {
	return Erode(Dilate(g, k), k)
}

func morph(g *Grid, k Kernel, better func(cur, cand uint8) bool, init uint8) *Grid {
	out := NewGrid(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			v := init
			for _, o := range k.offsets {
				xx, yy := x+o.X, y+o.Y
				if xx < 0 || yy < 0 || xx >= g.Width || yy >= g.Height {
					continue
				}
				if p := g.Pix[yy*g.Width+xx]; better(v, p) {
					v = p
				}
			}
			out.Pix[y*g.Width+x] = v
		}
	}
	return out
}
