// Package texture provides image decoders the standard library lacks.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2  // uncompressed true-color
	TGATypeRLE          = 10 // run-length encoded true-color
)

const tgaHeaderSize = 18

// ErrTGATruncated is returned when pixel data ends early.
var ErrTGATruncated = errors.New("tga: data truncated")

// DecodeTGA decodes an uncompressed or RLE true-color TGA (24 or 32 bpp).
// TGA stores straight alpha, so the result is non-premultiplied.
func DecodeTGA(data []byte) (*image.NRGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("tga: header too short (%d bytes)", len(data))
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, errors.New("tga: color-mapped images not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, ErrTGATruncated
	}

	d := tgaDecoder{
		src:         data[offset:],
		bytesPer:    bpp / 8,
		width:       width,
		height:      height,
		topToBottom: topToBottom,
		img:         image.NewNRGBA(image.Rect(0, 0, width, height)),
	}

	var err error
	if imageType == TGATypeUncompressed {
		err = d.decodeRaw()
	} else {
		err = d.decodeRLE()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	src         []byte
	pos         int
	bytesPer    int
	width       int
	height      int
	topToBottom bool
	img         *image.NRGBA
}

// next reads one BGR(A) pixel.
func (d *tgaDecoder) next() (color.NRGBA, error) {
	if d.pos+d.bytesPer > len(d.src) {
		return color.NRGBA{}, ErrTGATruncated
	}
	p := d.src[d.pos : d.pos+d.bytesPer]
	d.pos += d.bytesPer

	c := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.bytesPer == 4 {
		c.A = p[3]
	}
	return c, nil
}

// put stores pixel number i, flipping rows for bottom-up images.
func (d *tgaDecoder) put(i int, c color.NRGBA) {
	x, y := i%d.width, i/d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	d.img.SetNRGBA(x, y, c)
}

func (d *tgaDecoder) decodeRaw() error {
	for i := 0; i < d.width*d.height; i++ {
		c, err := d.next()
		if err != nil {
			return err
		}
		d.put(i, c)
	}
	return nil
}

func (d *tgaDecoder) decodeRLE() error {
	total := d.width * d.height
	for i := 0; i < total; {
		if d.pos >= len(d.src) {
			return ErrTGATruncated
		}
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			c, err := d.next()
			if err != nil {
				return err
			}
			for n := 0; n < count && i < total; n++ {
				d.put(i, c)
				i++
			}
			continue
		}

		for n := 0; n < count && i < total; n++ {
			c, err := d.next()
			if err != nil {
				return err
			}
			d.put(i, c)
			i++
		}
	}
	return nil
}
