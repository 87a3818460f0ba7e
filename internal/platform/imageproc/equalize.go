package imageproc

import "math"

// EqualizeHist は累積ヒストグラムが一様になるよう輝度値を再配置します。
// 単一の輝度しか持たないグリッドはそのまま複製して返します。
func EqualizeHist(g *Grid) *Grid {
	var hist [256]int
	for _, v := range g.Pix {
		hist[v]++
	}

	total := len(g.Pix)
	// 最初に出現する輝度の度数
	cdfMin := 0
	for _, h := range hist {
		if h != 0 {
			cdfMin = h
			break
		}
	}
	if total == 0 || cdfMin == total {
		return g.Clone()
	}

	var lut [256]uint8
	scale := 255.0 / float64(total-cdfMin)
	cdf := 0
	for i, h := range hist {
		cdf += h
		v := math.Round(float64(cdf-cdfMin) * scale)
		if v < 0 {
			v = 0
		}
		lut[i] = uint8(math.Min(v, 255))
	}

	out := NewGrid(g.Width, g.Height)
	for i, v := range g.Pix {
		out.Pix[i] = lut[v]
	}
	return out
}
