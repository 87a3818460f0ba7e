package imageproc

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	_ "github.com/spakin/netpbm"
	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels はデコードを許可する画素数の既定の上限です（4096×4096）。
const DefaultMaxPixels = 4096 * 4096

var (
	// ErrEmptyImage はデコード結果の面積がゼロの場合に返されます。
	ErrEmptyImage = errors.New("decoded image has zero area")
	// ErrImageTooLarge は画素数が上限を超える場合に返されます。
	ErrImageTooLarge = errors.New("image exceeds the pixel limit")
)

// DecodeBase64 はbase64でエンコードされた画像をグレースケールのGridに変換します。
// "data:image/png;base64," のようなデータURLのプレフィックスは取り除かれます。
// 画素データを展開する前にヘッダーの寸法を確認し、maxPixels を超える画像は拒否します。
// maxPixels が0以下の場合は DefaultMaxPixels を使います。
func DecodeBase64(encoded string, maxPixels int) (*Grid, error) {
	payload := encoded
	if _, after, found := strings.Cut(encoded, ","); found {
		payload = after
	}

	raw, err := decodeBase64Payload(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	if err := checkDimensions(raw, maxPixels); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("unrecognized image data: %w", err)
	}

	g := ToGrid(img)
	if g.Empty() {
		return nil, ErrEmptyImage
	}
	return g, nil
}

// checkDimensions はimage.DecodeConfigでヘッダーだけを読み、画素数を検査します。
func checkDimensions(raw []byte, maxPixels int) error {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("unrecognized image data: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > int64(maxPixels) {
		return fmt.Errorf("%w: %dx%d is more than %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, maxPixels)
	}
	return nil
}

// decodeBase64Payload は空白を除去し、パディングの有無に関わらずデコードします。
func decodeBase64Payload(payload string) ([]byte, error) {
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)
	if payload == "" {
		return nil, errors.New("empty payload")
	}
	if strings.HasSuffix(payload, "=") || len(payload)%4 == 0 {
		return base64.StdEncoding.DecodeString(payload)
	}
	return base64.RawStdEncoding.DecodeString(payload)
}

// ToGrid は任意のimage.ImageをITU-R 601の輝度でグレースケール化します。
func ToGrid(img image.Image) *Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())
	if gray, ok := img.(*image.Gray); ok {
		for y := 0; y < g.Height; y++ {
			row := gray.Pix[(y+b.Min.Y-gray.Rect.Min.Y)*gray.Stride+(b.Min.X-gray.Rect.Min.X):]
			copy(g.Pix[y*g.Width:(y+1)*g.Width], row[:g.Width])
		}
		return g
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			g.Pix[y*g.Width+x] = c.Y
		}
	}
	return g
}
