package softhost

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/Carmen-Shannon/relight-go/baker/host"
)

// Image is a square float RGBA buffer held in the scene's image registry.
// Pixel storage stays linear float until SavePNG quantizes it.
type Image struct {
	name  string
	size  int
	alpha bool
	pix   []float32 // RGBA, 4 floats per pixel
}

var _ host.ImageHandle = &Image{}

func newImage(name string, size int, alpha bool) *Image {
	return &Image{name: name, size: size, alpha: alpha, pix: make([]float32, size*size*4)}
}

// Name returns the registry name of the image.
func (im *Image) Name() string { return im.name }

// Width returns the side length in pixels.
func (im *Image) Width() int { return im.size }

// Height returns the side length in pixels.
func (im *Image) Height() int { return im.size }

// Alpha reports whether the image carries an alpha channel.
func (im *Image) Alpha() bool { return im.alpha }

// Clear zeroes every pixel. Alpha-less images clear to opaque black.
func (im *Image) Clear() {
	for i := range im.pix {
		im.pix[i] = 0
	}
	if !im.alpha {
		for i := 3; i < len(im.pix); i += 4 {
			im.pix[i] = 1
		}
	}
}

// At returns the RGBA value of pixel (x, y). Out-of-bounds reads return zero.
func (im *Image) At(x, y int) [4]float32 {
	if x < 0 || y < 0 || x >= im.size || y >= im.size {
		return [4]float32{}
	}
	i := (y*im.size + x) * 4
	return [4]float32{im.pix[i], im.pix[i+1], im.pix[i+2], im.pix[i+3]}
}

func (im *Image) set(x, y int, c [4]float32) {
	i := (y*im.size + x) * 4
	im.pix[i], im.pix[i+1], im.pix[i+2], im.pix[i+3] = c[0], c[1], c[2], c[3]
}

// Sample returns the nearest texel at normalized coordinates (u, v), clamped
// to the image edge.
func (im *Image) Sample(u, v float64) [4]float32 {
	x := int(u * float64(im.size))
	y := int(v * float64(im.size))
	x = min(max(x, 0), im.size-1)
	y = min(max(y, 0), im.size-1)
	return im.At(x, y)
}

// toNRGBA quantizes the float buffer to 8-bit for encoding or rescaling.
func (im *Image) toNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, im.size, im.size))
	for y := 0; y < im.size; y++ {
		for x := 0; x < im.size; x++ {
			c := im.At(x, y)
			a := c[3]
			if !im.alpha {
				a = 1
			}
			out.SetNRGBA(x, y, color.NRGBA{
				R: quantize(c[0]),
				G: quantize(c[1]),
				B: quantize(c[2]),
				A: quantize(a),
			})
		}
	}
	return out
}

func quantize(v float32) uint8 {
	return uint8(math.Round(math.Min(math.Max(float64(v), 0), 1) * 255))
}

// SavePNG writes the image to a PNG file.
func (im *Image) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return png.Encode(f, im.toNRGBA())
}
