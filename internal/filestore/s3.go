// Package filestore stores and removes the uploaded files (documents and
// payment proofs) in an S3-compatible object store. The database keeps only
// the object paths; this package owns the bytes.
package filestore

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// Store is the handler-facing surface. Put uploads a file under the given
// object path; Remove deletes objects freed by document or tenant deletion.
type Store interface {
	Put(ctx context.Context, objectPath string, data []byte, contentType string) error
	Remove(ctx context.Context, objectPaths ...string) error
}

// S3Store implements Store against an S3-compatible endpoint (AWS, MinIO,
// Ceph RGW).
type S3Store struct {
	logger zerolog.Logger
	bucket string

	endpoint  string
	region    string
	accessKey string
	secretKey string
}

func NewS3Store(logger zerolog.Logger, endpoint, region, bucket, accessKey, secretKey string) *S3Store {
	return &S3Store{
		logger:    logger.With().Str("component", "filestore").Logger(),
		bucket:    bucket,
		endpoint:  endpoint,
		region:    region,
		accessKey: accessKey,
		secretKey: secretKey,
	}
}

func (s *S3Store) client() *s3.Client {
	return s3.New(s3.Options{
		BaseEndpoint: aws.String(s.endpoint),
		Region:       s.region,
		Credentials:  credentials.NewStaticCredentialsProvider(s.accessKey, s.secretKey, ""),
		UsePathStyle: true,
	})
}

func (s *S3Store) Put(ctx context.Context, objectPath string, data []byte, contentType string) error {
	_, err := s.client().PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(objectPath),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", objectPath, err)
	}
	s.logger.Debug().Str("path", objectPath).Int("bytes", len(data)).Msg("stored object")
	return nil
}

func (s *S3Store) Remove(ctx context.Context, objectPaths ...string) error {
	if len(objectPaths) == 0 {
		return nil
	}

	objects := make([]s3types.ObjectIdentifier, len(objectPaths))
	for i, p := range objectPaths {
		objects[i] = s3types.ObjectIdentifier{Key: aws.String(p)}
	}
	_, err := s.client().DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3types.Delete{Objects: objects},
	})
	if err != nil {
		return fmt.Errorf("delete %d objects: %w", len(objectPaths), err)
	}
	s.logger.Info().Int("count", len(objectPaths)).Msg("removed objects")
	return nil
}

// DocumentPath builds the object path for a document file.
func DocumentPath(tenantID, documentID, fileName string) string {
	return path.Join("tenants", tenantID, "documents", documentID, fileName)
}

// ProofPath builds the object path for a payment proof attached to a document.
func ProofPath(tenantID, documentID, proofID, fileName string) string {
	return path.Join("tenants", tenantID, "documents", documentID, "proofs", proofID, fileName)
}

// SubscriptionProofPath builds the object path for a subscription payment proof.
func SubscriptionProofPath(tenantID, subscriptionID, fileName string) string {
	return path.Join("tenants", tenantID, "subscriptions", subscriptionID, fileName)
}
