// File: internal/markdown/tables.go
package markdown

import (
	"html"
	"regexp"
	"strings"
)

var (
	tableRe = regexp.MustCompile(`(?is)<table[^>]*>(.*?)</table>`)
	theadRe = regexp.MustCompile(`(?is)<thead[^>]*>(.*?)</thead>`)
	tbodyRe = regexp.MustCompile(`(?is)<tbody[^>]*>(.*?)</tbody>`)
	trRe    = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	thRe    = regexp.MustCompile(`(?is)<th[^>]*>(.*?)</th>`)
	tdRe    = regexp.MustCompile(`(?is)<td[^>]*>(.*?)</td>`)
	tagRe   = regexp.MustCompile(`<[^>]*>`)
)

// ConvertHTMLTables rewrites every well-formed HTML table in content as a
// pipe-delimited Markdown table. A table needs a <thead> with <th> cells and a
// <tbody> with at least one <tr>/<td> row; anything less passes through
// unchanged. Nested markup inside cells is stripped.
func ConvertHTMLTables(content string) string {
	return tableRe.ReplaceAllStringFunc(content, func(block string) string {
		inner := tableRe.FindStringSubmatch(block)[1]

		var headers []string
		if m := theadRe.FindStringSubmatch(inner); m != nil {
			for _, th := range thRe.FindAllStringSubmatch(m[1], -1) {
				headers = append(headers, cellText(th[1]))
			}
		}

		var rows [][]string
		if m := tbodyRe.FindStringSubmatch(inner); m != nil {
			for _, tr := range trRe.FindAllStringSubmatch(m[1], -1) {
				var row []string
				for _, td := range tdRe.FindAllStringSubmatch(tr[1], -1) {
					row = append(row, cellText(td[1]))
				}
				if len(row) > 0 {
					rows = append(rows, row)
				}
			}
		}

		if len(headers) == 0 || len(rows) == 0 {
			return block
		}

		var b strings.Builder
		b.WriteString("\n\n| " + strings.Join(headers, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat("---|", len(headers)) + "\n")
		for _, row := range rows {
			b.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
		b.WriteString("\n")
		return b.String()
	})
}

func cellText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(tagRe.ReplaceAllString(raw, "")))
}

// NormalizeTables repairs pipe-table formatting: every cell gets exactly one
// leading and trailing space, separator rows are reduced to '-', ':' and '|',
// blank-line gaps inside a table are removed, and a table is separated from
// surrounding prose by exactly one blank line.
func NormalizeTables(content string) string {
	lines := strings.Split(content, "\n")
	var out []string

	i := 0
	for i < len(lines) {
		if !isTableRow(lines[i]) {
			out = append(out, lines[i])
			i++
			continue
		}

		table, next := collectTable(lines, i)
		i = next

		for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
			out = out[:len(out)-1]
		}
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, table...)
		for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
			i++
		}
		if i < len(lines) {
			out = append(out, "")
		}
	}

	return strings.Join(out, "\n")
}

// collectTable gathers the run of table rows starting at i, normalizing each
// and swallowing blank gaps that are followed by another row.
func collectTable(lines []string, i int) ([]string, int) {
	var table []string
	for i < len(lines) {
		if isTableRow(lines[i]) {
			table = append(table, normalizeRow(lines[i]))
			i++
			continue
		}
		if strings.TrimSpace(lines[i]) != "" {
			break
		}
		j := i
		for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
			j++
		}
		if j < len(lines) && isTableRow(lines[j]) {
			i = j
			continue
		}
		break
	}
	return table, i
}

func isTableRow(line string) bool {
	t := strings.TrimSpace(line)
	return len(t) > 1 && strings.HasPrefix(t, "|") && strings.HasSuffix(t, "|")
}

func normalizeRow(line string) string {
	t := strings.TrimSpace(line)
	parts := strings.Split(t, "|")
	cells := parts[1 : len(parts)-1]

	if isSeparator(cells) {
		for k, c := range cells {
			cells[k] = keepSeparatorChars(c)
		}
		return "|" + strings.Join(cells, "|") + "|"
	}

	for k, c := range cells {
		cells[k] = strings.TrimSpace(c)
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

// isSeparator reports whether every cell is a header-separator segment
// (dashes with optional alignment colons).
func isSeparator(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if !strings.Contains(c, "-") {
			return false
		}
		for _, r := range c {
			if r != '-' && r != ':' {
				return false
			}
		}
	}
	return true
}

func keepSeparatorChars(cell string) string {
	var b strings.Builder
	for _, r := range cell {
		if r == '-' || r == ':' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
