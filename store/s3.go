/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Store keeps each key as one object in an S3 bucket, optionally gzip
// compressed.
type S3Store struct {
	Config aws.Config

	// Client is set by Init; callers may replace it afterwards, e.g. to
	// point at an S3 compatible endpoint.
	Client *s3.Client

	bucket    string
	prefix    string
	gzip      bool
	logErrors bool
	ctx       context.Context
}

// NewS3 returns an S3Store for bucket. Objects live under prefix (which may
// be empty). Init must be called before use.
func NewS3(ctx context.Context, bucket string, prefix string, gzip bool,
	logErrors bool) *S3Store {

	return &S3Store{
		ctx:       ctx,
		bucket:    bucket,
		prefix:    prefix,
		gzip:      gzip,
		logErrors: logErrors,
	}
}

// Init loads the default AWS configuration (environment, then shared config
// files) and checks the bucket can be listed.
func (s *S3Store) Init() error {
	if s.bucket == "" {
		return fmt.Errorf("store.s3: missing bucket name")
	}

	var err error
	s.Config, err = config.LoadDefaultConfig(s.ctx)
	if err != nil {
		return fmt.Errorf("store.s3: failed to load AWS config: %w", err)
	}
	s.Client = s3.NewFromConfig(s.Config)

	if _, err = s.Client.HeadBucket(s.ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	}); err != nil {
		return fmt.Errorf("store.s3: head bucket failed for %v: %w", s.bucket, err)
	}
	if _, err = s.Client.ListObjectsV2(s.ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return fmt.Errorf("store.s3: list objects failed for %v: %w", s.bucket, err)
	}

	return nil
}

func (s *S3Store) objectKey(key string) string {
	k := path.Join(s.prefix, key)
	if s.gzip {
		k += ".gz"
	}
	return k
}

func (s *S3Store) logf(format string, args ...any) {
	if s.logErrors {
		log.Printf(format, args...)
	}
}

func (s *S3Store) Get(key string) ([]byte, bool) {
	objKey := s.objectKey(key)
	resp, err := s.Client.GetObject(s.ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		var apiErr smithy.APIError
		if !(errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey") {
			s.logf("store.s3.get: failed to get %v/%v: %v", s.bucket, objKey, err)
		}
		return nil, false
	}
	defer resp.Body.Close()

	var rdr io.Reader = resp.Body
	if s.gzip {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			s.logf("store.s3.get: failed to open compressed %v/%v: %v", s.bucket,
				objKey, err)
			return nil, false
		}
		defer gz.Close()
		rdr = gz
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		s.logf("store.s3.get: failed to read %v/%v: %v", s.bucket, objKey, err)
		return nil, false
	}

	return data, true
}

func (s *S3Store) Set(key string, data []byte) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}

	if s.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			s.logf("store.s3.set: failed to gzip %v: %v", key, err)
			return
		}
		if err := gw.Close(); err != nil {
			s.logf("store.s3.set: failed to close gzip writer for %v: %v", key, err)
			return
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := s.Client.PutObject(s.ctx, input); err != nil {
		s.logf("store.s3.set: put failed for %v/%v: %v", s.bucket, *input.Key, err)
	}
}

func (s *S3Store) Delete(key string) {
	objKey := s.objectKey(key)
	if _, err := s.Client.DeleteObject(s.ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	}); err != nil {
		s.logf("store.s3.delete: delete failed for %v/%v: %v", s.bucket, objKey, err)
	}
}
