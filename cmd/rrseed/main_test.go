/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"testing"

	"github.com/gregjones/httpcache"

	"github.com/rpmurphy2/pickleball-round-robin/roster"
	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	src := httpcache.NewMemoryCache()
	dst := httpcache.NewMemoryCache()

	r := roster.New()
	if _, err := r.QuickAddTeams("Ann, Ben\nCat, Dan"); err != nil {
		t.Fatalf("quickadd failed: %v", err)
	}
	if _, err := r.AddPlayer("Eve", roundrobin.RoleFemale); err != nil {
		t.Fatalf("addplayer failed: %v", err)
	}
	if err := r.Save(ctx, src, "rr:league:"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	n := seed(ctx, src, dst, "rr:", []string{"league", "missing"})
	if n != 1 {
		t.Fatalf("expected 1 roster seeded, got %v", n)
	}

	got := roster.Restore(ctx, dst, "rr:league:").Entrants()
	if len(got.Teams) != 2 || len(got.Players) != 1 {
		t.Errorf("expected 2 teams and 1 player, got %v and %v", len(got.Teams),
			len(got.Players))
	}
	if _, ok := dst.Get("rr:missing:" + roster.TeamsKey); ok {
		t.Errorf("missing roster should not have been written")
	}
}
