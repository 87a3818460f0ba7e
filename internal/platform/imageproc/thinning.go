package imageproc

// Thin はZhang-Suen法でリッジを1画素幅の中心線に細線化します。
// 連結性を壊さない境界画素のみを削除し、変化がなくなるまで繰り返します。
// グリッド外は背景として扱います。
func Thin(m *BinaryMap) *BinaryMap {
	out := NewBinaryMap(m.Width, m.Height)
	for i, v := range m.Pix {
		if v != 0 {
			out.Pix[i] = 1
		}
	}

	var deletions []int
	for {
		changed := false
		for step := 0; step < 2; step++ {
			deletions = deletions[:0]
			for y := 0; y < out.Height; y++ {
				for x := 0; x < out.Width; x++ {
					if out.Pix[y*out.Width+x] == 0 {
						continue
					}
					if removable(out, x, y, step) {
						deletions = append(deletions, y*out.Width+x)
					}
				}
			}
			for _, idx := range deletions {
				out.Pix[idx] = 0
			}
			if len(deletions) > 0 {
				changed = true
			}
		}
		if !changed {
			return out
		}
	}
}

// removable はZhang-Suenの各サブイテレーションの削除条件を判定します。
func removable(m *BinaryMap, x, y, step int) bool {
	// P2(北)から時計回りにP9(北西)まで
	p := [8]uint8{
		m.At(x, y-1),
		m.At(x+1, y-1),
		m.At(x+1, y),
		m.At(x+1, y+1),
		m.At(x, y+1),
		m.At(x-1, y+1),
		m.At(x-1, y),
		m.At(x-1, y-1),
	}

	b := 0
	for _, v := range p {
		b += int(v)
	}
	if b < 2 || b > 6 {
		return false
	}

	a := 0
	for i := 0; i < 8; i++ {
		if p[i] == 0 && p[(i+1)%8] == 1 {
			a++
		}
	}
	if a != 1 {
		return false
	}

	p2, p4, p6, p8 := p[0], p[2], p[4], p[6]
	if step == 0 {
		return p2*p4*p6 == 0 && p4*p6*p8 == 0
	}
	return p2*p4*p8 == 0 && p2*p6*p8 == 0
}
