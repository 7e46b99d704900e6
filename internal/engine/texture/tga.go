package texture

import (
	"fmt"
	"image"
	"image/color"
)

// TGA image types handled by DecodeTGA.
const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

type tgaHeader struct {
	width, height int
	bytesPerPixel int
	topDown       bool
	rle           bool
}

func parseTGAHeader(data []byte) (tgaHeader, []byte, error) {
	if len(data) < 18 {
		return tgaHeader{}, nil, fmt.Errorf("tga: header needs 18 bytes, got %d", len(data))
	}
	if data[1] != 0 {
		return tgaHeader{}, nil, fmt.Errorf("tga: color-mapped images are not supported")
	}
	h := tgaHeader{
		width:   int(data[12]) | int(data[13])<<8,
		height:  int(data[14]) | int(data[15])<<8,
		topDown: data[17]&0x20 != 0,
	}
	switch data[2] {
	case tgaTrueColor:
	case tgaTrueColorRLE:
		h.rle = true
	default:
		return tgaHeader{}, nil, fmt.Errorf("tga: image type %d is not true-color", data[2])
	}
	switch bpp := data[16]; bpp {
	case 24, 32:
		h.bytesPerPixel = int(bpp) / 8
	default:
		return tgaHeader{}, nil, fmt.Errorf("tga: %d bits per pixel is not supported", bpp)
	}
	start := 18 + int(data[0])
	if start > len(data) {
		return tgaHeader{}, nil, fmt.Errorf("tga: id field runs past the data")
	}
	return h, data[start:], nil
}

// tgaWriter stores pixels in file order, flipping bottom-up images.
type tgaWriter struct {
	img  *image.RGBA
	h    tgaHeader
	next int
}

func (w *tgaWriter) full() bool {
	return w.next >= w.h.width*w.h.height
}

func (w *tgaWriter) put(c color.RGBA) {
	x, y := w.next%w.h.width, w.next/w.h.width
	if !w.h.topDown {
		y = w.h.height - 1 - y
	}
	w.img.SetRGBA(x, y, c)
	w.next++
}

// bgra reads one pixel stored as BGR or BGRA.
func bgra(p []byte) color.RGBA {
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if len(p) == 4 {
		c.A = p[3]
	}
	return c
}

// DecodeTGA decodes uncompressed and RLE true-color TGA images.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, pix, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	w := &tgaWriter{img: image.NewRGBA(image.Rect(0, 0, h.width, h.height)), h: h}
	bpp := h.bytesPerPixel

	if !h.rle {
		if len(pix) < h.width*h.height*bpp {
			return nil, fmt.Errorf("tga: pixel data truncated")
		}
		for i := 0; !w.full(); i += bpp {
			w.put(bgra(pix[i : i+bpp]))
		}
		return w.img, nil
	}

	for i := 0; !w.full(); {
		if i >= len(pix) {
			return nil, fmt.Errorf("tga: rle data ends after %d pixels", w.next)
		}
		packet := pix[i]
		i++
		n := int(packet&0x7f) + 1
		if packet&0x80 != 0 {
			if i+bpp > len(pix) {
				return nil, fmt.Errorf("tga: rle run truncated")
			}
			c := bgra(pix[i : i+bpp])
			i += bpp
			for ; n > 0 && !w.full(); n-- {
				w.put(c)
			}
			continue
		}
		if i+n*bpp > len(pix) {
			return nil, fmt.Errorf("tga: raw packet truncated")
		}
		for ; n > 0 && !w.full(); n-- {
			w.put(bgra(pix[i : i+bpp]))
			i += bpp
		}
	}
	return w.img, nil
}
