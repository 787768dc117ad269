package provider

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const placeholderSize = 512

// Background colors cycled by image index so sibling placeholders in
// one response look distinct.
var placeholderPalette = []color.RGBA{
	{R: 52, G: 152, B: 219, A: 255},
	{R: 155, G: 89, B: 182, A: 255},
	{R: 52, G: 73, B: 94, A: 255},
	{R: 243, G: 156, B: 18, A: 255},
	{R: 231, G: 76, B: 60, A: 255},
	{R: 46, G: 204, B: 113, A: 255},
}

// Placeholder renders the last-resort stand-in image: a solid
// background, a few decorative circles and a preview of the prompt.
type Placeholder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

type PlaceholderOptions struct {
	Rand *rand.Rand
}

func NewPlaceholder(opts PlaceholderOptions) *Placeholder {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Placeholder{rng: rng}
}

func (p *Placeholder) Render(prompt string, index int) image.Image {
	bg := placeholderPalette[((index%len(placeholderPalette))+len(placeholderPalette))%len(placeholderPalette)]

	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	accent := color.RGBA{
		R: lighten(bg.R),
		G: lighten(bg.G),
		B: lighten(bg.B),
		A: 255,
	}

	p.mu.Lock()
	for i := 0; i < 3; i++ {
		cx := 100 + p.rng.Intn(placeholderSize-200)
		cy := 100 + p.rng.Intn(placeholderSize-200)
		r := 30 + p.rng.Intn(30)
		fillCircle(img, cx, cy, r, accent)
	}
	p.mu.Unlock()

	words := strings.Fields(prompt)
	line1 := "Vizzy AI"
	line2 := "Image Generation"
	if len(words) > 0 {
		line1 = strings.Join(words[:min(4, len(words))], " ")
	}
	if len(words) > 4 {
		line2 = strings.Join(words[4:min(8, len(words))], " ")
	}

	drawCenteredText(img, line1, placeholderSize/2-30)
	drawCenteredText(img, line2, placeholderSize/2+10)
	drawCenteredText(img, "vizzy.ai", placeholderSize-40)

	return img
}

func lighten(c uint8) uint8 {
	if c > 225 {
		return 255
	}
	return c + 30
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx := x - cx
			dy := y - cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func drawCenteredText(img *image.RGBA, text string, y int) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I((placeholderSize - width) / 2),
			Y: fixed.I(y),
		},
	}
	d.DrawString(text)
}
