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
)

// FetchText downloads a plain text sign-up sheet, one entry per line.
func FetchText(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("internal.fetch: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("internal.fetch: %v: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("internal.fetch: %v: unexpected status %v", url,
			resp.Status)
	}
	const limit = RosterFetchMaxMB << 20
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return "", fmt.Errorf("internal.fetch: %v: %w", url, err)
	}
	if len(data) > limit {
		return "", fmt.Errorf("internal.fetch: %v: body exceeds %vMB", url,
			RosterFetchMaxMB)
	}

	return string(data), nil
}
