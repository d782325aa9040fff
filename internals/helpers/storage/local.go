package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// localBackend menulis ke UPLOAD_DIR; file disajikan Fiber static di PUBLIC_UPLOAD_URL.
type localBackend struct {
	root    string
	urlBase string
}

func newLocalBackend(root, urlBase string) *localBackend {
	if strings.TrimSpace(root) == "" {
		root = "./uploads"
	}
	if strings.TrimSpace(urlBase) == "" {
		urlBase = "/uploads"
	}
	return &localBackend{root: root, urlBase: strings.TrimRight(urlBase, "/")}
}

func (l *localBackend) put(ctx context.Context, key string, r io.Reader, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dst := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (l *localBackend) remove(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(l.root, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (l *localBackend) publicURL(key string) string {
	return l.urlBase + "/" + key
}

func (l *localBackend) keyFromURL(ref string) (string, error) {
	key := strings.TrimPrefix(ref, l.urlBase+"/")
	if key == ref || key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("bukan file lokal: %s", ref)
	}
	return key, nil
}
