/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gregjones/httpcache/test"
)

func TestMemoryStore(t *testing.T) {
	s, err := Open(context.Background(), "mem://")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	test.Cache(t, s)
}

func TestDiskStore(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(context.Background(), "file://"+dir)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	test.Cache(t, s)
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "store.db")
	s, err := Open(ctx, "sqlite://"+dbPath)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer Close(s)

	test.Cache(t, s)

	s.Set("pickleballTeams", []byte(`[1]`))
	s.Set("pickleballTeams", []byte(`[1,2]`))
	data, ok := s.Get("pickleballTeams")
	if !ok || string(data) != "[1,2]" {
		t.Errorf("expected overwritten value, got %q (ok=%v)", data, ok)
	}

	// the table survives a reopen
	if err := Close(s); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	s2, err := Open(ctx, "sqlite://"+dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer Close(s2)
	if data, ok := s2.Get("pickleballTeams"); !ok || string(data) != "[1,2]" {
		t.Errorf("value lost on reopen: %q (ok=%v)", data, ok)
	}
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("RR_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("Skipping test because RR_TEST_POSTGRES_URL is not set")
	}
	s, err := Open(context.Background(), dsn)
	if err != nil {
		t.Skipf("Skipping test due to lack of access to postgres: %v", err)
	}
	defer Close(s)

	test.Cache(t, s)
}

func TestRedisStore(t *testing.T) {
	redisURL := os.Getenv("RR_TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	s, err := Open(context.Background(), redisURL)
	if err != nil {
		t.Skipf("Skipping test due to lack of access to %v: %v", redisURL, err)
	}
	defer Close(s)

	test.Cache(t, s)
}

func TestS3Store(t *testing.T) {
	bucket := os.Getenv("RR_TEST_S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping test because RR_TEST_S3_BUCKET is not set")
	}

	for _, gz := range []string{"false", "true"} {
		t.Run("gzip="+gz, func(t *testing.T) {
			s, err := Open(context.Background(),
				"s3://"+bucket+"/rr-test?gzip="+gz)
			if err != nil {
				t.Skipf("Skipping test due to lack of access to %v: %v", bucket, err)
			}
			test.Cache(t, s)
		})
	}
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := Open(ctx, "ftp://example.com"); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("expected ErrUnsupportedScheme, got %v", err)
	}
	if _, err := Open(ctx, "file://"); err == nil {
		t.Errorf("expected error for missing directory")
	}
	if _, err := Open(ctx, "s3://bucket?gzip=maybe"); err == nil {
		t.Errorf("expected error for bad gzip flag")
	}
}
