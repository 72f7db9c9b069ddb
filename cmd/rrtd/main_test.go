/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"reflect"
	"testing"

	"github.com/rpmurphy2/pickleball-round-robin/roundrobin"
)

func TestParseLockFlags(t *testing.T) {
	key := func(a, b int) roundrobin.MatchupKey {
		return roundrobin.NewMatchupKey(roundrobin.UnitID(a), roundrobin.UnitID(b))
	}

	tests := []struct {
		name    string
		locks   []string
		byes    []string
		want    []roundrobin.LockedRound
		wantErr bool
	}{
		{
			name: "empty",
			want: []roundrobin.LockedRound{},
		},
		{
			name:  "matchups and byes merge by round",
			locks: []string{"3:1-2, 5-4", "1:2-3"},
			byes:  []string{"3:6", "2:1"},
			want: []roundrobin.LockedRound{
				{Number: 1, Matchups: []roundrobin.MatchupKey{key(2, 3)}},
				{Number: 2, Bye: 1},
				{Number: 3, Matchups: []roundrobin.MatchupKey{key(1, 2), key(4, 5)},
					Bye: 6},
			},
		},
		{name: "missing colon", locks: []string{"1-2"}, wantErr: true},
		{name: "bad round", locks: []string{"x:1-2"}, wantErr: true},
		{name: "round zero", locks: []string{"0:1-2"}, wantErr: true},
		{name: "bad matchup", locks: []string{"1:1-1"}, wantErr: true},
		{name: "bad bye team", byes: []string{"1:abc"}, wantErr: true},
		{name: "two byes one round", byes: []string{"1:2", "1:3"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLockFlags(tt.locks, tt.byes)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
