package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Palette strip geometry, in pixels.
const (
	SwatchWidth  = 140
	SwatchHeight = 80
	LabelHeight  = 40
	labelSize    = 12
)

var paletteFont *truetype.Font

func init() {
	f, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf("report: bundled font: %v", err))
	}
	paletteFont = f
}

// DrawPalette renders one swatch per cluster side by side, each with
// its label and mean HSV written underneath. Empty clusters are drawn
// as a grey swatch.
func DrawPalette(views []ClusterView) (*image.RGBA, error) {
	n := len(views)
	if n == 0 {
		return nil, fmt.Errorf("no clusters to draw")
	}
	img := image.NewRGBA(image.Rect(0, 0, n*SwatchWidth, SwatchHeight+LabelHeight))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(paletteFont)
	ctx.SetFontSize(labelSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.Black)
	ctx.SetHinting(font.HintingFull)

	for i, v := range views {
		x0 := i * SwatchWidth
		swatch := image.Rect(x0, 0, x0+SwatchWidth, SwatchHeight)
		fill := color.RGBA{R: 128, G: 128, B: 128, A: 255}
		if !v.Empty {
			fill = v.Swatch.ToColor()
		}
		draw.Draw(img, swatch, image.NewUniform(fill), image.Point{}, draw.Src)

		lines := []string{v.Label, "empty"}
		if !v.Empty {
			lines[1] = fmt.Sprintf("%.1f, %.1f, %.1f", v.Mean.H, v.Mean.S, v.Mean.V)
		}
		for j, line := range lines {
			pt := freetype.Pt(x0+4, SwatchHeight+(j+1)*(labelSize+4))
			if _, err := ctx.DrawString(line, pt); err != nil {
				return nil, fmt.Errorf("failed to draw label: %w", err)
			}
		}
	}
	return img, nil
}
