package demo

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
)

// Checker returns a size×size checkerboard of cells×cells squares.
func Checker(size, cells int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/max(cells, 1), 1)
	for y := range size {
		for x := range size {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Solid returns a size×size image of one color.
func Solid(size int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Panels returns a tangent-space normal map of raised panels separated by
// grooves along the cell borders.
func Panels(size, cells int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/max(cells, 1), 2)
	for y := range size {
		for x := range size {
			nx, ny := float32(0), float32(0)
			switch x % cell {
			case 0:
				nx = -0.7
			case cell - 1:
				nx = 0.7
			}
			switch y % cell {
			case 0:
				ny = -0.7
			case cell - 1:
				ny = 0.7
			}
			nz := math32.Sqrt(max(1-nx*nx-ny*ny, 0))
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((nx*0.5 + 0.5) * 255),
				G: uint8((ny*0.5 + 0.5) * 255),
				B: uint8((nz*0.5 + 0.5) * 255),
				A: 255,
			})
		}
	}
	return img
}

// Stripes returns a team color mask: red marks the base tint area, green
// the stripe.
func Stripes(size, bands int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	band := max(size/max(bands, 1), 1)
	for y := range size {
		stripe := (y/band)%2 == 1
		for x := range size {
			c := color.RGBA{R: 255, A: 255}
			if stripe {
				c = color.RGBA{G: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Sky returns six cube faces fading from horizon to zenith color.
func Sky(size int, horizon, zenith color.RGBA) [6]image.Image {
	var faces [6]image.Image
	for i := range faces {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for y := range size {
			t := float32(y) / float32(max(size-1, 1))
			switch i {
			case 2: // +Y
				t = 0
			case 3: // -Y
				t = 1
			}
			c := lerpRGBA(zenith, horizon, t)
			for x := range size {
				img.SetRGBA(x, y, c)
			}
		}
		faces[i] = img
	}
	return faces
}

func lerpRGBA(a, b color.RGBA, t float32) color.RGBA {
	l := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return color.RGBA{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: l(a.A, b.A)}
}
