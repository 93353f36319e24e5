package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestLoadImageFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, encodePNG(t, 6, 3), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := NewManager(Options{Cache: true})
	img, err := m.LoadImage(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 3 {
		t.Errorf("bounds = %v, want 6x3", b)
	}
}

func TestLoadImageTGA(t *testing.T) {
	tga := make([]byte, 18)
	tga[2] = 2
	tga[12], tga[14] = 1, 1
	tga[16] = 32
	tga = append(tga, 0, 0, 255, 200)

	path := filepath.Join(t.TempDir(), "logo.TGA")
	if err := os.WriteFile(path, tga, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	img, err := NewManager(Options{}).LoadImage(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	if got != (color.NRGBA{R: 255, A: 200}) {
		t.Errorf("pixel = %v, want red alpha 200", got)
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "logo.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := NewManager(Options{})
	if _, err := m.LoadImage(context.Background(), filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := m.LoadImage(context.Background(), garbage); err == nil {
		t.Error("expected error for undecodable file")
	}
}

func TestLoadImageHTTP(t *testing.T) {
	body := encodePNG(t, 4, 4)
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/logo.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	m := NewManager(Options{HTTPTimeout: 5 * time.Second, Cache: true})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		img, err := m.LoadImage(ctx, srv.URL+"/logo.png")
		if err != nil {
			t.Fatalf("LoadImage #%d: %v", i, err)
		}
		if img.Bounds().Dx() != 4 {
			t.Errorf("unexpected bounds %v", img.Bounds())
		}
	}
	if n := requests.Load(); n != 1 {
		t.Errorf("expected 1 request with cache, got %d", n)
	}
	hits, misses := m.Cache().Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("cache stats = %d hits / %d misses, want 1/1", hits, misses)
	}

	if _, err := m.LoadImage(ctx, srv.URL+"/missing.png"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestLoadCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewManager(Options{}).Load(ctx, srv.URL+"/logo.png"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	if _, ok := c.Get("a"); ok {
		t.Error("empty cache returned a hit")
	}
	c.Set("a", []byte{1})
	if data, ok := c.Get("a"); !ok || len(data) != 1 {
		t.Error("expected hit after Set")
	}
	c.Clear()
	if hits, misses := c.Stats(); hits != 0 || misses != 0 {
		t.Errorf("Clear should reset stats, got %d/%d", hits, misses)
	}
}

func TestResourcePath(t *testing.T) {
	tests := map[string]string{
		"logo.tga":                            "logo.tga",
		"https://cdn.example.com/a/b.tga?v=3": "/a/b.tga",
		"http://example.com/x.png#frag":       "/x.png",
	}
	for in, want := range tests {
		if got := resourcePath(in); got != want {
			t.Errorf("resourcePath(%q) = %q, want %q", in, got, want)
		}
	}
}
