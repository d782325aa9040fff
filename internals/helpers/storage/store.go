// Package storage menyimpan file unggahan (bukti transaksi, bukti pengembalian aset,
// hasil surat) dan mengembalikan referensi publik yang disimpan di DB.
package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"desaku_backend/internals/configs"
	"desaku_backend/internals/constants"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const MaxUploadSize = int64(5 * 1024 * 1024)

// FileStore: core hanya menyimpan string referensi yang dikembalikan Store.
type FileStore interface {
	Store(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, ref string) error
}

// backend menulis byte yang sudah final ke key tertentu.
type backend interface {
	put(ctx context.Context, key string, r io.Reader, contentType string) error
	remove(ctx context.Context, key string) error
	publicURL(key string) string
	keyFromURL(ref string) (string, error)
}

type store struct {
	b    backend
	webp WebPOptions
}

// New memilih OSS bila ALI_OSS_* lengkap, selain itu disk lokal.
func New(cfg configs.Config) (FileStore, error) {
	if cfg.OSSEnabled() {
		b, err := newOSSBackend(cfg)
		if err != nil {
			return nil, err
		}
		zap.L().Info("file store: aliyun oss", zap.String("bucket", cfg.OSSBucket))
		return &store{b: b, webp: DefaultWebPOptions()}, nil
	}
	zap.L().Info("file store: local disk", zap.String("dir", cfg.UploadDir))
	return &store{b: newLocalBackend(cfg.UploadDir, cfg.PublicUploadURL), webp: DefaultWebPOptions()}, nil
}

func (s *store) Store(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	if fh.Size > MaxUploadSize {
		return "", fiber.NewError(fiber.StatusRequestEntityTooLarge, "Ukuran file maksimal 5MB")
	}
	kind := constants.DetectFileKind(fh.Filename)
	if kind == constants.FileKindUnknown {
		return "", fiber.NewError(fiber.StatusUnsupportedMediaType, "Format file tidak didukung (jpg/png/webp/pdf/doc)")
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	name := fh.Filename
	var (
		body io.Reader = src
		ct             = contentTypeOf(fh.Filename)
	)
	if kind == constants.FileKindImage {
		data, err := ConvertToWebP(src, s.webp)
		if err != nil {
			return "", fiber.NewError(fiber.StatusUnsupportedMediaType, "Gambar tidak dapat diproses")
		}
		body = bytes.NewReader(data)
		ct = "image/webp"
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".webp"
	}

	key := BuildKey(dir, name, time.Now())
	if err := s.b.put(ctx, key, body, ct); err != nil {
		zap.L().Error("store file", zap.String("key", key), zap.Error(err))
		return "", fiber.NewError(fiber.StatusBadGateway, "Gagal menyimpan file")
	}
	return s.b.publicURL(key), nil
}

func (s *store) Delete(ctx context.Context, ref string) error {
	if strings.TrimSpace(ref) == "" {
		return nil
	}
	key, err := s.b.keyFromURL(ref)
	if err != nil {
		return err
	}
	return s.b.remove(ctx, key)
}

// BuildKey: dir/slug-nama_YYYYMMDD_HHMMSS_rand.ext
func BuildKey(dir, filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := safeName(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if base == "" {
		base = "file"
	}
	key := fmt.Sprintf("%s_%s_%s%s", base, now.Format("20060102_150405"), randHex(3), ext)

	parts := make([]string, 0, 4)
	for _, p := range strings.Split(strings.Trim(dir, "/"), "/") {
		if p = safeName(p); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, key)
	return strings.Join(parts, "/")
}

func safeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		case !lastDash && b.Len() > 0:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func randHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "000000"
	}
	return hex.EncodeToString(buf)
}

func contentTypeOf(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
