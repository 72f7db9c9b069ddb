/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SignupLines turns a downloaded sign-up sheet into quick-add text. Plain
// text passes through unchanged. For an html page the rows of the first
// table with data cells become "cell1, cell2" lines; without a table the
// page's list items are used one per line.
func SignupLines(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, "<") {
		return body, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("roster.signup: failed to parse html: %w", err)
	}

	var lines []string
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		table.Find("tr").Each(func(_ int, row *goquery.Selection) {
			var cells []string
			row.Find("td").Each(func(_ int, td *goquery.Selection) {
				if text := strings.Join(strings.Fields(td.Text()), " "); text != "" {
					cells = append(cells, text)
				}
			})
			if len(cells) > 0 {
				lines = append(lines, strings.Join(cells, ", "))
			}
		})
		// stop at the first table with data rows
		return len(lines) == 0
	})

	if len(lines) == 0 {
		doc.Find("li").Each(func(_ int, li *goquery.Selection) {
			if text := strings.Join(strings.Fields(li.Text()), " "); text != "" {
				lines = append(lines, text)
			}
		})
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: no table rows or list items in page",
			ErrMalformedQuickAdd)
	}

	return strings.Join(lines, "\n"), nil
}
