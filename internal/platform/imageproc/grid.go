// Package imageproc は指紋パイプラインで使用するグレースケール画像処理の基本操作を提供します。
// すべての関数は入力を変更せず、新しいグリッドを返します。
package imageproc

import (
	"errors"
	"image"
)

// ErrGridTooSmall は内部ピクセル（外周1ピクセルを除いた領域）を持たないグリッドに対して返されます。
var ErrGridTooSmall = errors.New("grid has no interior pixels")

// Grid は8ビット輝度値の2次元グリッドです（行優先）。
type Grid struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewGrid は指定サイズのゼロ初期化されたGridを生成します。
func NewGrid(width, height int) *Grid {
	return &Grid{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// At は(x, y)の輝度値を返します。
func (g *Grid) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Set は(x, y)に輝度値を設定します。
func (g *Grid) Set(x, y int, v uint8) {
	g.Pix[y*g.Width+x] = v
}

// Empty は面積がゼロの場合にtrueを返します。
func (g *Grid) Empty() bool {
	return g == nil || g.Width <= 0 || g.Height <= 0
}

// Clone はGridのディープコピーを返します。
func (g *Grid) Clone() *Grid {
	out := &Grid{Width: g.Width, Height: g.Height, Pix: make([]uint8, len(g.Pix))}
	copy(out.Pix, g.Pix)
	return out
}

// Gray はGridを画素配列を共有する*image.Grayとして返します。
func (g *Grid) Gray() *image.Gray {
	return &image.Gray{
		Pix:    g.Pix,
		Stride: g.Width,
		Rect:   image.Rect(0, 0, g.Width, g.Height),
	}
}

// BinaryMap は値が0または1の2次元マップです。リッジ画素が1になります。
type BinaryMap struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewBinaryMap は指定サイズの空のBinaryMapを生成します。
func NewBinaryMap(width, height int) *BinaryMap {
	return &BinaryMap{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// ParseBinaryMap は"#"または"1"を前景とする行リストからBinaryMapを生成します。
// 行の長さが揃っていない場合は短い行を背景で埋めます。
func ParseBinaryMap(rows ...string) *BinaryMap {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	m := NewBinaryMap(width, len(rows))
	for y, r := range rows {
		for x := 0; x < len(r); x++ {
			if r[x] == '#' || r[x] == '1' {
				m.Set(x, y, 1)
			}
		}
	}
	return m
}

// At は(x, y)の値を返します。範囲外は0として扱います。
func (m *BinaryMap) At(x, y int) uint8 {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return 0
	}
	return m.Pix[y*m.Width+x]
}

// Set は(x, y)に値を設定します。
func (m *BinaryMap) Set(x, y int, v uint8) {
	m.Pix[y*m.Width+x] = v
}

// Count は前景画素の数を返します。
func (m *BinaryMap) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Clone はBinaryMapのディープコピーを返します。
func (m *BinaryMap) Clone() *BinaryMap {
	out := &BinaryMap{Width: m.Width, Height: m.Height, Pix: make([]uint8, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}
