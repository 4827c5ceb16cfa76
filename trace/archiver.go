// Package trace archives per-request analysis traces to S3 and hands back the
// opaque reference that appears in responses. Traces are diagnostics, not
// state: an unreachable bucket costs the trace_ref, never the analysis.
package trace

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/iammanoj/interestlens/pipeline"
)

// ErrNotFound is returned by Fetch for unknown or expired trace keys.
var ErrNotFound = errors.New("trace not found")

// S3Archiver implements pipeline.TraceSink on an S3 bucket. Objects are laid
// out as traces/<yyyy>/<mm>/<dd>/<id>.json.
type S3Archiver struct {
	client *s3.Client
	bucket string
}

// NewS3ArchiverFromEnv builds an archiver when TRACE_S3_BUCKET is set,
// otherwise returns nil and analyses run without trace refs. Credentials come
// from the standard AWS config chain.
func NewS3ArchiverFromEnv(ctx context.Context) (*S3Archiver, error) {
	bucket := os.Getenv("TRACE_S3_BUCKET")
	if bucket == "" {
		return nil, nil
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if region := os.Getenv("AWS_REGION"); region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Path-style for S3-compatible stores like MinIO
		o.UsePathStyle = os.Getenv("TRACE_S3_PATH_STYLE") == "true"
	})
	return &S3Archiver{client: client, bucket: bucket}, nil
}

// NewS3Archiver wraps an existing client, mainly for tests.
func NewS3Archiver(client *s3.Client, bucket string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket}
}

// Archive uploads the trace as JSON and returns its reference.
func (a *S3Archiver) Archive(ctx context.Context, trace *pipeline.Trace) (string, error) {
	raw, err := json.Marshal(trace)
	if err != nil {
		return "", fmt.Errorf("failed to encode trace: %w", err)
	}

	key := traceKey(trace.GeneratedAt)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload trace: %w", err)
	}
	return "s3://" + a.bucket + "/" + key, nil
}

// Fetch retrieves an archived trace by its key (not the full s3:// ref).
func (a *S3Archiver) Fetch(ctx context.Context, key string) (*pipeline.Trace, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound") {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch trace %s: %w", key, err)
	}
	defer out.Body.Close()

	var trace pipeline.Trace
	if err := json.NewDecoder(out.Body).Decode(&trace); err != nil {
		return nil, fmt.Errorf("corrupt trace %s: %w", key, err)
	}
	return &trace, nil
}

func traceKey(at time.Time) string {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	var suffix [8]byte
	_, _ = rand.Read(suffix[:])
	return fmt.Sprintf("traces/%04d/%02d/%02d/%s.json",
		at.Year(), at.Month(), at.Day(), hex.EncodeToString(suffix[:]))
}
