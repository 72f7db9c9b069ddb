/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gregjones/httpcache"
)

func TestCachedHttpClient(t *testing.T) {
	hits := 0
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		hits++
		agent = r.Header.Get("User-Agent")
		w.Header().Set("Cache-Control", "no-store")
		fmt.Fprint(w, "Ann, Ben\nCat, Dan\n")
	}))
	defer srv.Close()

	client := NewCachedHttpClient(httpcache.NewMemoryCache(), 5*time.Minute)
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		if err != nil {
			t.Fatalf("new request failed: %v", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || !strings.HasPrefix(string(data), "Ann, Ben") {
			t.Errorf("unexpected body %q: %v", data, err)
		}
		if i > 0 && resp.Header.Get(httpcache.XFromCache) != "1" {
			t.Errorf("request %v not served from cache", i)
		}
	}

	if hits != 1 {
		t.Errorf("expected 1 origin hit, got %v", hits)
	}
	if agent != UserAgent {
		t.Errorf("expected user agent %q, got %q", UserAgent, agent)
	}
}

func TestFetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter,
		r *http.Request) {

		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "Ann, F\nBen, M\n")
	}))
	defer srv.Close()

	ctx := context.Background()
	text, err := FetchText(ctx, srv.Client(), srv.URL+"/sheet.txt")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if text != "Ann, F\nBen, M\n" {
		t.Errorf("unexpected body %q", text)
	}

	if _, err := FetchText(ctx, srv.Client(), srv.URL+"/missing"); err == nil {
		t.Errorf("expected error for 404")
	}
}
