package imageproc

import "github.com/disintegration/imaging"

// binomial5 はσを指定しない5タップのガウシアン近似係数です。
var binomial5 = [5]float64{1, 4, 6, 4, 1}

// GaussianBlur5 は5×5のガウシアンカーネルで平滑化し、二値化前のスペックルノイズを抑えます。
// 画像端は端の画素を繰り返さない鏡映（reflect101, gfedcb|abcdefgh|gfedcba）で扱います。
// imaging.Convolve5x5 は端の画素を複製するため、2画素ずつ鏡映で拡張してから畳み込み、元の範囲を切り出します。
func GaussianBlur5(g *Grid) *Grid {
	var kernel [25]float64
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			kernel[i*5+j] = binomial5[i] * binomial5[j]
		}
	}

	const pad = 2
	padded := padReflect101(g, pad)
	dst := imaging.Convolve5x5(padded.Gray(), kernel, &imaging.ConvolveOptions{Normalize: true})

	out := NewGrid(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		row := dst.Pix[(y+pad)*dst.Stride:]
		for x := 0; x < g.Width; x++ {
			// グレースケール入力なのでRGBは等しい
			out.Pix[y*g.Width+x] = row[(x+pad)*4]
		}
	}
	return out
}

// padReflect101 は上下左右にpad画素ずつ鏡映で拡張したGridを返します。
func padReflect101(g *Grid, pad int) *Grid {
	w, h := g.Width+2*pad, g.Height+2*pad
	out := NewGrid(w, h)
	for y := 0; y < h; y++ {
		sy := reflect101(y-pad, g.Height)
		for x := 0; x < w; x++ {
			out.Pix[y*w+x] = g.Pix[sy*g.Width+reflect101(x-pad, g.Width)]
		}
	}
	return out
}

// reflect101 は範囲外の添字を端の画素を含めずに折り返します。
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}
