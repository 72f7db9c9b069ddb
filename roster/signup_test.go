/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"errors"
	"testing"
)

func TestSignupLines(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{
			name: "plain text",
			body: "Ann, Ben\nCat, Dan\n",
			want: "Ann, Ben\nCat, Dan\n",
		},
		{
			name: "table with header row",
			body: `<html><body><table>
				<tr><th>Player 1</th><th>Player 2</th></tr>
				<tr><td> Ann </td><td>Ben</td></tr>
				<tr><td>Cat</td><td>Dan
				   Smith</td></tr>
			</table><table><tr><td>ignored</td></tr></table></body></html>`,
			want: "Ann, Ben\nCat, Dan Smith",
		},
		{
			name: "list items",
			body: `<ul><li>Eve, F</li><li>Gus, M</li><li> </li></ul>`,
			want: "Eve, F\nGus, M",
		},
		{
			name:    "nothing usable",
			body:    `<html><body><p>Sign-ups closed</p></body></html>`,
			wantErr: ErrMalformedQuickAdd,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SignupLines(tt.body)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	r := New()
	text, err := SignupLines(`<table><tr><td>Ann</td><td>Ben</td></tr></table>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	teams, err := r.QuickAddTeams(text)
	if err != nil || len(teams) != 1 || teams[0].Name() != "Ann & Ben" {
		t.Errorf("expected team Ann & Ben, got %v (%v)", teams, err)
	}
}
