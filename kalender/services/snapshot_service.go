package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vintervake/kodekalender/kalender/engine"
)

// SnapshotService stores session exports as JSON objects in a
// DigitalOcean Spaces bucket, one object per snapshot.
type SnapshotService struct {
	client *s3.Client
	bucket string
	region string
	root   string
}

func NewSnapshotService(spacesKey, spacesSecret, region, bucket, root string) (*SnapshotService, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load spaces config: %w", err)
	}

	return &SnapshotService{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
		root:   strings.Trim(root, "/"),
	}, nil
}

func (s *SnapshotService) objectKey(sessionID string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%s.json", s.root, sessionID, at.UTC().Format("20060102T150405Z"))
}

// Upload exports the session and writes the blob to the bucket. Returns the
// object key of the stored snapshot.
func (s *SnapshotService) Upload(ctx context.Context, eng *engine.Engine, sessionID string) (string, error) {
	data, err := eng.Export(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to export session %s: %w", sessionID, err)
	}

	key := s.objectKey(sessionID, time.Now())
	contentType := "application/json"
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}
	return key, nil
}

// keyInScope reports whether a snapshot key lives under the session's
// prefix. Restores never cross sessions.
func keyInScope(root, sessionID, key string) bool {
	return strings.HasPrefix(key, root+"/"+sessionID+"/")
}

// ErrSnapshotOutOfScope marks a restore request for a key that belongs to
// a different session.
var ErrSnapshotOutOfScope = fmt.Errorf("snapshot key outside session scope")

// Restore reads a snapshot object and imports it into the session. The
// import rejects malformed blobs before touching any stored fact.
func (s *SnapshotService) Restore(ctx context.Context, eng *engine.Engine, sessionID, key string) error {
	if !keyInScope(s.root, sessionID, key) {
		return ErrSnapshotOutOfScope
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch snapshot %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	return eng.Import(ctx, data)
}

// List returns the stored snapshot keys for a session, newest last.
func (s *SnapshotService) List(ctx context.Context, sessionID string) ([]string, error) {
	prefix := fmt.Sprintf("%s/%s/", s.root, sessionID)
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: &s.bucket,
		Prefix: &prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots for %s: %w", sessionID, err)
	}

	keys := make([]string, 0, len(out.Contents))
	for _, obj := range out.Contents {
		if obj.Key != nil {
			keys = append(keys, *obj.Key)
		}
	}
	return keys, nil
}
