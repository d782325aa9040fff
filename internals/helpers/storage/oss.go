package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"desaku_backend/internals/configs"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"
)

type ossBackend struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	prefix     string
	publicBase string
}

func newOSSBackend(cfg configs.Config) (*ossBackend, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// AccessDenied pada GetBucketLocation umum untuk key yang hanya boleh put/delete.
	if loc, err := client.GetBucketLocation(cfg.OSSBucket); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 {
			zap.L().Warn("oss: skip bucket location check", zap.String("bucket", cfg.OSSBucket))
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		zap.L().Info("oss bucket location", zap.String("bucket", cfg.OSSBucket), zap.String("location", loc))
	}

	return &ossBackend{
		bucket:     bkt,
		endpoint:   cfg.OSSEndpoint,
		bucketName: cfg.OSSBucket,
		prefix:     strings.Trim(cfg.OSSPrefix, "/"),
		publicBase: strings.TrimRight(cfg.OSSPublicBase, "/"),
	}, nil
}

func (o *ossBackend) fullKey(key string) string {
	if o.prefix == "" {
		return key
	}
	return o.prefix + "/" + key
}

func (o *ossBackend) put(ctx context.Context, key string, r io.Reader, contentType string) error {
	return o.bucket.PutObject(o.fullKey(key), r,
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	)
}

// remove menerima key penuh (sudah berprefix) hasil keyFromURL.
func (o *ossBackend) remove(ctx context.Context, key string) error {
	return o.bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (o *ossBackend) publicURL(key string) string {
	full := o.fullKey(key)
	if o.publicBase != "" {
		return o.publicBase + "/" + full
	}
	end := strings.TrimPrefix(strings.TrimPrefix(o.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", o.bucketName, end, full)
}

func (o *ossBackend) keyFromURL(ref string) (string, error) {
	if o.publicBase != "" && strings.HasPrefix(ref, o.publicBase+"/") {
		return strings.TrimPrefix(ref, o.publicBase+"/"), nil
	}
	u := ref
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.Index(u, "/"); i >= 0 && i+1 < len(u) {
		return u[i+1:], nil
	}
	return "", fmt.Errorf("cannot extract key from url: %s", ref)
}
