package texture

import (
	"errors"
	"image/color"
	"testing"
)

func tgaHeader(imageType byte, w, h int, bpp byte, descriptor byte) []byte {
	hdr := make([]byte, tgaHeaderSize)
	hdr[2] = imageType
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressedBottomUp(t *testing.T) {
	// 2x2, 32bpp, bottom-up: first stored row is the bottom row
	data := tgaHeader(TGATypeUncompressed, 2, 2, 32, 0)
	data = append(data,
		0, 0, 255, 255, // bottom-left red
		0, 255, 0, 128, // bottom-right green, half alpha
		255, 0, 0, 255, // top-left blue
		0, 0, 0, 0, // top-right transparent
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}

	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 1, color.NRGBA{R: 255, A: 255}},
		{1, 1, color.NRGBA{G: 255, A: 128}},
		{0, 0, color.NRGBA{B: 255, A: 255}},
		{1, 0, color.NRGBA{}},
	}
	for _, tt := range tests {
		if got := img.NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDecodeTGA24TopDown(t *testing.T) {
	data := tgaHeader(TGATypeUncompressed, 2, 1, 24, 0x20)
	data = append(data, 10, 20, 30, 40, 50, 60)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{R: 30, G: 20, B: 10, A: 255}) {
		t.Errorf("pixel (0,0) = %v", got)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{R: 60, G: 50, B: 40, A: 255}) {
		t.Errorf("pixel (1,0) = %v", got)
	}
}

func TestDecodeTGARLE(t *testing.T) {
	// 4x1 top-down: run of 3 red, then 1 raw blue
	data := tgaHeader(TGATypeRLE, 4, 1, 32, 0x20)
	data = append(data,
		0x80|2, 0, 0, 255, 255,
		0x00, 255, 0, 0, 255,
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA: %v", err)
	}
	for x := 0; x < 3; x++ {
		if got := img.NRGBAAt(x, 0); got != (color.NRGBA{R: 255, A: 255}) {
			t.Errorf("pixel (%d,0) = %v, want red", x, got)
		}
	}
	if got := img.NRGBAAt(3, 0); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("pixel (3,0) = %v, want blue", got)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0, 0, 2}},
		{"color mapped", func() []byte { h := tgaHeader(TGATypeUncompressed, 1, 1, 24, 0); h[1] = 1; return h }()},
		{"grayscale", tgaHeader(3, 1, 1, 8, 0)},
		{"16 bpp", tgaHeader(TGATypeUncompressed, 1, 1, 16, 0)},
		{"truncated pixels", append(tgaHeader(TGATypeUncompressed, 2, 2, 24, 0), 1, 2, 3)},
		{"truncated rle", append(tgaHeader(TGATypeRLE, 2, 2, 24, 0), 0x81)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}

	_, err := DecodeTGA(append(tgaHeader(TGATypeUncompressed, 2, 2, 24, 0), 1, 2, 3))
	if !errors.Is(err, ErrTGATruncated) {
		t.Errorf("expected ErrTGATruncated, got %v", err)
	}
}
