// Package storage fetches billing-database backups from S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	cfg "vatkhata/internal/config"
	"vatkhata/internal/domain"
)

// Backup is a backup object found in the bucket.
type Backup struct {
	Name         string
	LastModified time.Time
}

// objectStore is the subset of the S3 client the repository uses.
type objectStore interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// BackupRepository retrieves database backups from an S3 bucket.
type BackupRepository struct {
	client    objectStore
	bucket    string
	backupDir string
}

// NewBackupRepository creates a new BackupRepository
func NewBackupRepository(ctx context.Context, s3cfg cfg.S3Config, backupDir string) (*BackupRepository, error) {
	// Build AWS config options
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(s3cfg.Region),
	}

	// Add credentials if provided
	if s3cfg.AccessKeyID != "" && s3cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				s3cfg.AccessKeyID,
				s3cfg.SecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Create S3 client with optional endpoint override for MinIO/LocalStack
	var client *s3.Client
	if s3cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(s3cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &BackupRepository{
		client:    client,
		bucket:    s3cfg.Bucket,
		backupDir: backupDir,
	}, nil
}

// LatestByPattern returns the most recently modified object whose key
// matches the pattern, or domain.ErrNoBackupFound.
func (r *BackupRepository) LatestByPattern(ctx context.Context, pattern string) (Backup, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Backup{}, fmt.Errorf("invalid backup pattern %q: %w", pattern, err)
	}

	log.Info().Str("pattern", pattern).Msg("Listing backups")

	var latest Backup
	paginator := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return Backup{}, fmt.Errorf("list backups: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !re.MatchString(key) {
				continue
			}
			modified := aws.ToTime(obj.LastModified)
			if latest.Name == "" || modified.After(latest.LastModified) {
				latest = Backup{Name: key, LastModified: modified}
			}
		}
	}

	if latest.Name == "" {
		return Backup{}, fmt.Errorf("%w: %s", domain.ErrNoBackupFound, pattern)
	}
	return latest, nil
}

// Download fetches the backup into the backup directory and returns the
// local path. An already-present file is reused without a network round trip.
func (r *BackupRepository) Download(ctx context.Context, backup Backup) (string, error) {
	path := filepath.Join(r.backupDir, backup.Name)
	if _, err := os.Stat(path); err == nil {
		log.Info().Str("path", path).Msg("Backup already present, skipping download")
		return path, nil
	}

	log.Info().Str("key", backup.Name).Msg("Downloading backup")

	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(backup.Name),
	})
	if err != nil {
		return "", fmt.Errorf("get backup %s: %w", backup.Name, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(r.backupDir, 0o755); err != nil {
		return "", err
	}

	// Download to a temp name and rename on success: a failed copy must not
	// leave a truncated file the already-present check would trust.
	tmp := path + ".partial"
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, out.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("write backup %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}

	log.Info().Str("path", path).Msg("Backup download complete")
	return path, nil
}
