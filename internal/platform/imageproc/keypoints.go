package imageproc

import "image"

// fastCircle は半径3のブレゼンハム円上の16画素（北から時計回り）です。
var fastCircle = [16]image.Point{
	{0, -3}, {1, -3}, {2, -2}, {3, -1},
	{3, 0}, {3, 1}, {2, 2}, {1, 3},
	{0, 3}, {-1, 3}, {-2, 2}, {-3, 1},
	{-3, 0}, {-3, -1}, {-2, -2}, {-1, -3},
}

// fastArc はコーナーと判定する連続画素数です（FAST-9）。
const fastArc = 9

// CountKeypoints はFASTのセグメントテストで検出したコーナー数を返します。
// 中心より threshold を超えて明るい（または暗い）画素が円周上に9個以上連続すればコーナーです。
func CountKeypoints(g *Grid, threshold int) int {
	if g.Width < 7 || g.Height < 7 {
		return 0
	}
	n := 0
	for y := 3; y < g.Height-3; y++ {
		for x := 3; x < g.Width-3; x++ {
			if isCorner(g, x, y, threshold) {
				n++
			}
		}
	}
	return n
}

func isCorner(g *Grid, x, y, threshold int) bool {
	c := int(g.At(x, y))
	var marks [16]int8
	for i, o := range fastCircle {
		v := int(g.At(x+o.X, y+o.Y))
		switch {
		case v > c+threshold:
			marks[i] = 1
		case v < c-threshold:
			marks[i] = -1
		}
	}

	// 円周の折り返しを考慮して2周分走査する
	run, prev := 0, int8(0)
	for i := 0; i < 32; i++ {
		m := marks[i%16]
		if m != 0 && m == prev {
			run++
		} else if m != 0 {
			run = 1
		} else {
			run = 0
		}
		prev = m
		if run >= fastArc {
			return true
		}
	}
	return false
}
