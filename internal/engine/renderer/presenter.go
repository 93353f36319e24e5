package renderer

import (
	"fmt"
	"image"
	"image/color"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/logoswarm/internal/engine/shader"
	"github.com/Faultbox/logoswarm/internal/logger"
)

// Config holds presenter configuration.
type Config struct {
	Width      int
	Height     int
	Background color.RGBA
}

// layerTexture mirrors one CPU layer on the GPU.
type layerTexture struct {
	id   uint32
	w, h int
}

// Presenter uploads CPU-drawn layers as textures and composites them over
// the background colour, one fullscreen quad per layer.
type Presenter struct {
	config  Config
	program *shader.Program
	vao     uint32
	vbo     uint32
	layers  []layerTexture
	log     *zap.Logger
}

// NewPresenter creates a presenter.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func NewPresenter(cfg Config) (*Presenter, error) {
	p := &Presenter{
		config: cfg,
		log:    logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	p.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	// Canvas pixels are premultiplied
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	bg := cfg.Background
	gl.ClearColor(float32(bg.R)/255, float32(bg.G)/255, float32(bg.B)/255, 1)

	var err error
	p.program, err = shader.Compile(shader.LayerVertex, shader.LayerFragment)
	if err != nil {
		return nil, fmt.Errorf("failed to create layer shader: %w", err)
	}
	p.program.Use()
	gl.Uniform1i(p.program.MustUniform("uLayer"), 0)

	p.createQuad()
	p.Resize(cfg.Width, cfg.Height)
	return p, nil
}

func (p *Presenter) createQuad() {
	// x, y, u, v as a triangle strip; v=0 is the image's top row
	vertices := []float32{
		-1, 1, 0, 0,
		-1, -1, 0, 1,
		1, 1, 1, 0,
		1, -1, 1, 1,
	}

	gl.GenVertexArrays(1, &p.vao)
	gl.GenBuffers(1, &p.vbo)
	gl.BindVertexArray(p.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	const stride = 4 * 4
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)
	gl.BindVertexArray(0)
}

// Resize handles window resize.
func (p *Presenter) Resize(width, height int) {
	p.config.Width = width
	p.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	p.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Present clears to the background and draws layers in order.
// Nil layers are skipped.
func (p *Presenter) Present(layers []*image.RGBA) {
	gl.Clear(gl.COLOR_BUFFER_BIT)

	p.program.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(p.vao)

	for i, img := range layers {
		if img == nil || img.Rect.Empty() {
			continue
		}
		p.upload(i, img)
		gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	}

	gl.BindVertexArray(0)
	p.trim(len(layers))
}

// upload copies img into the texture for slot i, reallocating on size change.
func (p *Presenter) upload(i int, img *image.RGBA) {
	for len(p.layers) <= i {
		var tex layerTexture
		gl.GenTextures(1, &tex.id)
		gl.BindTexture(gl.TEXTURE_2D, tex.id)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		p.layers = append(p.layers, tex)
	}

	tex := &p.layers[i]
	w, h := img.Rect.Dx(), img.Rect.Dy()
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	pix := unsafe.Pointer(&img.Pix[0])
	if tex.w != w || tex.h != h {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, pix)
		tex.w, tex.h = w, h
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, pix)
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
}

// trim frees textures for layers that no longer exist.
func (p *Presenter) trim(n int) {
	for len(p.layers) > n {
		last := p.layers[len(p.layers)-1]
		gl.DeleteTextures(1, &last.id)
		p.layers = p.layers[:len(p.layers)-1]
	}
}

// ReadPixels returns the back buffer as bottom-up RGBA rows.
func (p *Presenter) ReadPixels() ([]byte, int, int) {
	w, h := p.config.Width, p.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// Close cleans up GPU resources.
func (p *Presenter) Close() {
	p.log.Info("closing renderer")
	p.trim(0)
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
	}
	if p.vbo != 0 {
		gl.DeleteBuffers(1, &p.vbo)
	}
	if p.program != nil {
		p.program.Delete()
	}
}
