// Package media resolves menu item image references to URLs a browser can load.
package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Linker turns an image reference into a displayable URL.
type Linker interface {
	Link(ctx context.Context, ref string) (string, error)
}

// isWebURL reports whether ref is already an absolute http(s) URL.
func isWebURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

type passthroughLinker struct{}

// NewPassthroughLinker returns a Linker that hands references back unchanged.
func NewPassthroughLinker() Linker {
	return passthroughLinker{}
}

func (passthroughLinker) Link(_ context.Context, ref string) (string, error) {
	return ref, nil
}

// s3Linker presigns GET requests for image objects in one bucket.
type s3Linker struct {
	presigner *s3.PresignClient
	bucket    string
	ttl       time.Duration
	logger    zerolog.Logger
}

// NewS3Linker creates a Linker that presigns objects in bucket.
func NewS3Linker(ctx context.Context, bucket, region string, ttl time.Duration, logger zerolog.Logger) (Linker, error) {
	logger = logger.With().Str("component", "s3-image-linker").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Dur("ttl", ttl).
		Msg("S3 image linker initialised")

	return newS3Linker(s3.NewFromConfig(cfg), bucket, ttl, logger), nil
}

func newS3Linker(client *s3.Client, bucket string, ttl time.Duration, logger zerolog.Logger) *s3Linker {
	return &s3Linker{
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		ttl:       ttl,
		logger:    logger,
	}
}

// objectKey extracts the key from "s3://<bucket>/<key>" or a bare key.
func (l *s3Linker) objectKey(ref string) (string, error) {
	if rest, ok := strings.CutPrefix(ref, "s3://"); ok {
		bucket, key, found := strings.Cut(rest, "/")
		if !found || key == "" {
			return "", fmt.Errorf("image reference %q has no object key", ref)
		}
		if bucket != l.bucket {
			return "", fmt.Errorf("image reference %q is outside bucket %s", ref, l.bucket)
		}
		return key, nil
	}
	return strings.TrimPrefix(ref, "/"), nil
}

// Link presigns a GET for ref. Empty references and web URLs are returned as is.
func (l *s3Linker) Link(ctx context.Context, ref string) (string, error) {
	if ref == "" || isWebURL(ref) {
		return ref, nil
	}

	key, err := l.objectKey(ref)
	if err != nil {
		return "", err
	}

	req, err := l.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(l.ttl))
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to presign image")
		return "", fmt.Errorf("failed to presign image (bucket=%s, key=%s): %w", l.bucket, key, err)
	}

	return req.URL, nil
}

// fallbackLinker tries S3 first and falls back to the raw reference.
type fallbackLinker struct {
	s3Linker  Linker
	s3Enabled bool
	logger    zerolog.Logger
}

// NewFallbackLinker creates a Linker that presigns through s3Linker when
// enabled and hands back the reference unchanged otherwise or on failure.
// If s3Linker is nil only the passthrough is used.
func NewFallbackLinker(s3Linker Linker, s3Enabled bool, logger zerolog.Logger) Linker {
	return &fallbackLinker{
		s3Linker:  s3Linker,
		s3Enabled: s3Enabled,
		logger:    logger.With().Str("component", "fallback-image-linker").Logger(),
	}
}

func (l *fallbackLinker) Link(ctx context.Context, ref string) (string, error) {
	if !l.s3Enabled || l.s3Linker == nil || ref == "" || isWebURL(ref) {
		return ref, nil
	}

	url, err := l.s3Linker.Link(ctx, ref)
	if err == nil {
		return url, nil
	}

	l.logger.Warn().
		Err(err).
		Str("image_ref", ref).
		Msg("failed to presign image, using reference as is")
	return ref, nil
}
