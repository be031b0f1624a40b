package rates

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// s3Loader implements Loader for reading rate files from AWS S3.
type s3Loader struct {
	client *s3.Client
	bucket string
	base   string
	logger zerolog.Logger
}

// NewS3Loader creates a new S3-based rate loader.
func NewS3Loader(ctx context.Context, bucket, region, base string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-rate-loader").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 loader initialised")

	return &s3Loader{
		client: client,
		bucket: bucket,
		base:   base,
		logger: logger,
	}, nil
}

// Load reads a rate file from S3. key is the full object key.
func (l *s3Loader) Load(ctx context.Context, key string) (Table, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading rate file from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, key, err)
	}
	defer result.Body.Close()

	table, err := parse(ctx, result.Body, key, l.base)
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("failed to parse rate file from S3")
		return nil, err
	}

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Int("rates_loaded", len(table.Codes())).
		Msg("rate file loaded successfully from S3")

	return table, nil
}

// fallbackLoader tries S3 first, then the local file system.
type fallbackLoader struct {
	s3Loader   Loader
	fileLoader Loader
	s3Prefix   string
	s3Enabled  bool
	logger     zerolog.Logger
}

// NewFallbackLoader creates a loader that tries S3 first, then falls back to
// the local file system. A nil s3Loader means file system only.
func NewFallbackLoader(s3Loader, fileLoader Loader, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		s3Loader:   s3Loader,
		fileLoader: fileLoader,
		s3Prefix:   s3Prefix,
		s3Enabled:  s3Enabled,
		logger:     logger.With().Str("component", "fallback-rate-loader").Logger(),
	}
}

// Load prefixes path with the S3 prefix for the S3 attempt and uses it as-is
// on the local file system.
func (l *fallbackLoader) Load(ctx context.Context, path string) (Table, error) {
	if l.s3Enabled && l.s3Loader != nil {
		key := l.s3Prefix + path

		table, err := l.s3Loader.Load(ctx, key)
		if err == nil {
			return table, nil
		}

		l.logger.Warn().
			Err(err).
			Str("s3_key", key).
			Msg("failed to load from S3, falling back to local file system")
	}

	return l.fileLoader.Load(ctx, path)
}
