/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rpmurphy2/pickleball-round-robin/internal"
	"github.com/rpmurphy2/pickleball-round-robin/roster"
	"github.com/rpmurphy2/pickleball-round-robin/store"
)

// this program copies saved rosters from one store to another, e.g. to seed
// a shared server store from a laptop's file store

func main() {
	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	fs := flag.NewFlagSet("rrseed", flag.ExitOnError)
	from := fs.String("from", cfg.StoreURL, "Store url to copy from")
	to := fs.String("to", "", "Store url to copy to")
	sessions := fs.String("sessions", "cli",
		"Comma separated session names to copy")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}
	if *to == "" || *to == *from {
		fmt.Fprintln(os.Stderr, "Please provide a --to store different from --from.")
		fs.Usage()
		os.Exit(1)
	}

	ctx := context.Background()
	src, err := store.Open(ctx, *from)
	if err != nil {
		log.Fatalf("Error opening %v: %v", *from, err)
	}
	defer store.Close(src)
	dst, err := store.Open(ctx, *to)
	if err != nil {
		log.Fatalf("Error opening %v: %v", *to, err)
	}
	defer store.Close(dst)

	var names []string
	for _, name := range strings.Split(*sessions, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}

	copied := seed(ctx, src, dst, cfg.Prefix, names)
	fmt.Printf("seeded %v of %v rosters\n", copied, len(names))
}

// seed copies each named roster and reports how many made it. Failures are
// logged and skipped.
func seed(ctx context.Context, src, dst store.Store, prefix string,
	names []string) int {

	ok := make([]bool, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, name := range names {
		g.Go(func() error {
			p := prefix + name + ":"
			r := roster.Restore(gctx, src, p)
			e := r.Entrants()
			if len(e.Teams) == 0 && len(e.Players) == 0 {
				log.Printf("rrseed: %v: no roster found", name)
				return nil
			}
			if err := r.Save(gctx, dst, p); err != nil {
				// best effort
				log.Printf("rrseed: %v: %v", name, err)
				return nil
			}
			ok[i] = true
			fmt.Printf("seeded %v (%v teams, %v players)\n", name, len(e.Teams),
				len(e.Players))
			return nil
		})
	}
	_ = g.Wait()

	n := 0
	for _, b := range ok {
		if b {
			n++
		}
	}
	return n
}
