package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chai2010/webp"
)

func formFile(t *testing.T, name string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestBuildKey(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 4, 5, 0, time.UTC)
	key := BuildKey("/finance/Bukti Kas/", "Nota Belanja.PDF", now)
	if !strings.HasPrefix(key, "finance/bukti-kas/nota-belanja_20250301_100405_") {
		t.Fatalf("unexpected key %q", key)
	}
	if !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("extension not normalised: %q", key)
	}
}

func TestLocalStoreAndDelete(t *testing.T) {
	root := t.TempDir()
	s := &store{b: newLocalBackend(root, "/uploads"), webp: DefaultWebPOptions()}

	ref, err := s.Store(context.Background(), "documents", formFile(t, "surat.pdf", []byte("%PDF-1.4 test")))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(ref, "/uploads/documents/surat_") {
		t.Fatalf("unexpected ref %q", ref)
	}
	path := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(ref, "/uploads/")))
	got, err := os.ReadFile(path)
	if err != nil || string(got) != "%PDF-1.4 test" {
		t.Fatalf("stored content mismatch: %q %v", got, err)
	}

	if err := s.Delete(context.Background(), ref); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file still exists: %v", err)
	}
}

func TestStoreRejectsUnknownExtension(t *testing.T) {
	s := &store{b: newLocalBackend(t.TempDir(), "/uploads")}
	if _, err := s.Store(context.Background(), "x", formFile(t, "run.exe", []byte("MZ"))); err == nil {
		t.Fatal("expected unsupported media error")
	}
}

func TestStoreConvertsImageToWebP(t *testing.T) {
	root := t.TempDir()
	s := &store{b: newLocalBackend(root, "/uploads"), webp: WebPOptions{MaxW: 100, MaxH: 100, Quality: 70}}

	ref, err := s.Store(context.Background(), "loans", formFile(t, "bukti.png", pngBytes(t, 400, 200)))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(ref, ".webp") {
		t.Fatalf("expected webp ref, got %q", ref)
	}
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(ref, "/uploads/"))))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := webp.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Fatalf("image not fitted: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestLocalKeyFromURLRejectsTraversal(t *testing.T) {
	l := newLocalBackend(t.TempDir(), "/uploads")
	if _, err := l.keyFromURL("/uploads/../etc/passwd"); err == nil {
		t.Fatal("expected traversal to be rejected")
	}
	if _, err := l.keyFromURL("https://cdn.example.com/a.png"); err == nil {
		t.Fatal("expected foreign url to be rejected")
	}
}
