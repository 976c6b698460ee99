// Package snapshot archives player state to object storage.
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	"github.com/TG-Note-App/game-be/internal/player"
)

// DefaultURLExpiry is how long a presigned snapshot link stays valid.
const DefaultURLExpiry = 7 * 24 * time.Hour

// Archiver stores a point-in-time copy of a player and returns a link to it.
type Archiver interface {
	Archive(ctx context.Context, p *player.Player) (string, error)
}

// Snapshot - archived document layout
type Snapshot struct {
	Player     *player.Player `json:"player"`
	ArchivedAt time.Time      `json:"archived_at"`
}

// Config - MinIO connection settings
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

// MinioArchiver writes snapshots to a MinIO (or any S3 compatible) bucket.
type MinioArchiver struct {
	client *minio.Client
	bucket string
	expiry time.Duration
	now    func() time.Time
}

func NewMinioArchiver(cfg Config) (*MinioArchiver, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}
	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}
	return &MinioArchiver{client: client, bucket: cfg.Bucket, expiry: expiry, now: time.Now}, nil
}

// ObjectName returns the object key of one snapshot of player id.
func ObjectName(id int64, snapshotID uuid.UUID) string {
	return fmt.Sprintf("players/%d/%s.json", id, snapshotID)
}

// Encode renders the snapshot document.
func Encode(p *player.Player, archivedAt time.Time) ([]byte, error) {
	return json.Marshal(Snapshot{Player: p, ArchivedAt: archivedAt.UTC()})
}

func (a *MinioArchiver) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	log.Info().Str("bucket", a.bucket).Msg("creating snapshot bucket")
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket %s: %w", a.bucket, err)
	}
	return nil
}

// Archive uploads p and returns a presigned download URL.
func (a *MinioArchiver) Archive(ctx context.Context, p *player.Player) (string, error) {
	if err := a.ensureBucket(ctx); err != nil {
		return "", err
	}

	data, err := Encode(p, a.now())
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	objectName := ObjectName(p.ID, uuid.New())
	log.Debug().Str("bucket", a.bucket).Str("object", objectName).Msg("uploading player snapshot")
	_, err = a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("uploading snapshot: %w", err)
	}

	presignedURL, err := a.client.PresignedGetObject(ctx, a.bucket, objectName, a.expiry, make(url.Values))
	if err != nil {
		return "", fmt.Errorf("presigning snapshot: %w", err)
	}
	return presignedURL.String(), nil
}
