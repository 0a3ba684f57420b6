package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	gifCellW = 8
	gifCellH = 16
)

// framePalette is black, white and the current speed ramp.
func framePalette() color.Palette {
	ramp := ThemeRamp(CurrentTheme)
	pal := color.Palette{color.Black, color.White}
	for i := 0; i < rampSteps; i++ {
		pal = append(pal, ramp.steps[i])
	}
	return pal
}

// CanvasImage rasterises the canvas, drawing each braille dot as a block of
// gifCellW/2 x gifCellH/4 pixels in its cell colour.
func CanvasImage(c *Canvas) *image.Paletted {
	pal := framePalette()
	img := image.NewPaletted(image.Rect(0, 0, c.Width*gifCellW, c.Height*gifCellH), pal)
	dotW, dotH := gifCellW/2, gifCellH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := c.Grid[row][col] - brailleBase
			if pattern <= 0 {
				continue
			}
			idx := uint8(1)
			if hex := c.Colors[row][col]; hex != "" {
				idx = uint8(pal.Index(parseColor(hex)))
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&rune(pixelMap[dy][dx]) == 0 {
						continue
					}
					x0, y0 := col*gifCellW+dx*dotW, row*gifCellH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(x0+px, y0+py, idx)
						}
					}
				}
			}
		}
	}
	return img
}

// SaveGIF writes frames as a looping animation with the given delay in
// hundredths of a second.
func SaveGIF(path string, frames []*image.Paletted, delay int) error {
	if len(frames) == 0 {
		return fmt.Errorf("viz: no frames to save")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("viz: create gif: %w", err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return fmt.Errorf("viz: encode gif: %w", err)
	}
	return nil
}
