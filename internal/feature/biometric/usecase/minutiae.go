// Package usecase は指紋の登録・照合パイプラインを実装します。
package usecase

import (
	"image"

	"safari_backend/internal/feature/biometric/domain"
	"safari_backend/internal/feature/biometric/domain/entity"
	"safari_backend/internal/platform/imageproc"
)

// neighborOffsets は北から時計回りの8近傍です（N, NE, E, SE, S, SW, W, NW）。
var neighborOffsets = [8]image.Point{
	{X: 0, Y: -1},
	{X: 1, Y: -1},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: 0},
	{X: -1, Y: -1},
}

// CrossingNumber は(x, y)の8近傍を巡回したときの0/1遷移数の半分を返します。
func CrossingNumber(m *imageproc.BinaryMap, x, y int) int {
	var p [8]int
	for i, o := range neighborOffsets {
		p[i] = int(m.At(x+o.X, y+o.Y))
	}
	sum := 0
	for i := 0; i < 8; i++ {
		d := p[i] - p[(i+1)%8]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum / 2
}

// ExtractMinutiae はスケルトンから端点(CN=1)と分岐点(CN=3)を抽出します。
// 外周1画素は走査しません。結果は行優先の走査順です。
// 特徴点が1つもない場合は domain.ErrNoMinutiae を返します。
func ExtractMinutiae(m *imageproc.BinaryMap) ([]entity.Minutia, error) {
	var minutiae []entity.Minutia
	for y := 1; y < m.Height-1; y++ {
		for x := 1; x < m.Width-1; x++ {
			if m.At(x, y) != 1 {
				continue
			}
			switch CrossingNumber(m, x, y) {
			case 1:
				minutiae = append(minutiae, entity.Minutia{X: x, Y: y, Kind: entity.KindEnding})
			case 3:
				minutiae = append(minutiae, entity.Minutia{X: x, Y: y, Kind: entity.KindBifurcation})
			}
		}
	}
	if len(minutiae) == 0 {
		return nil, domain.ErrNoMinutiae
	}
	return minutiae, nil
}
