// File: internal/markdown/postprocess_test.go
package markdown

import (
	"strings"
	"testing"
)

func TestProcessConvertsHTMLTable(t *testing.T) {
	input := "Intro\n<table><thead><tr><th>Concept</th><th>Explanation</th></tr></thead>" +
		"<tbody><tr><td>Force</td><td>Push or pull</td></tr></tbody></table>\nOutro"

	want := "Intro\n\n| Concept | Explanation |\n|---|---|\n| Force | Push or pull |\n\nOutro"

	got := Process(input)
	if got != want {
		t.Errorf("Process() = %q, want %q", got, want)
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	inputs := []string{
		"plain prose with no tables",
		"<table><thead><tr><th>A</th></tr></thead><tbody><tr><td>1</td></tr></tbody></table>",
		"|a|b|\n|-|-|\n|1|2|",
		"## Heading\n\ntext\n\n| x | y |\n|---|---|\n| 1 | 2 |\n\nmore text",
		"",
	}

	for _, in := range inputs {
		once := Process(in)
		twice := Process(once)
		if once != twice {
			t.Errorf("Process not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestConvertHTMLTables(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name: "multi-row table",
			input: "<table><thead><tr><th>A</th><th>B</th></tr></thead>" +
				"<tbody><tr><td>1</td><td>2</td></tr><tr><td>3</td><td>4</td></tr></tbody></table>",
			want: "\n\n| A | B |\n|---|---|\n| 1 | 2 |\n| 3 | 4 |\n\n",
		},
		{
			name:  "table without thead passes through",
			input: "<table><tbody><tr><td>1</td></tr></tbody></table>",
			want:  "<table><tbody><tr><td>1</td></tr></tbody></table>",
		},
		{
			name:  "table without tbody rows passes through",
			input: "<table><thead><tr><th>A</th></tr></thead><tbody></tbody></table>",
			want:  "<table><thead><tr><th>A</th></tr></thead><tbody></tbody></table>",
		},
		{
			name: "entities and nested markup in cells",
			input: "<table><thead><tr><th>Force &amp; Motion</th></tr></thead>" +
				"<tbody><tr><td><strong>bold</strong> text</td></tr></tbody></table>",
			want: "\n\n| Force & Motion |\n|---|\n| bold text |\n\n",
		},
		{
			name: "uppercase tags and attributes",
			input: "<TABLE class=\"x\"><THEAD><TR><TH>A</TH></TR></THEAD>" +
				"<TBODY><TR><TD>1</TD></TR></TBODY></TABLE>",
			want: "\n\n| A |\n|---|\n| 1 |\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertHTMLTables(tt.input); got != tt.want {
				t.Errorf("ConvertHTMLTables() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertHTMLTablesHandlesLargeGrid(t *testing.T) {
	var b strings.Builder
	b.WriteString("<table><thead><tr>")
	for c := 0; c < 6; c++ {
		b.WriteString("<th>h</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for r := 0; r < 20; r++ {
		b.WriteString("<tr>")
		for c := 0; c < 6; c++ {
			b.WriteString("<td>v</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")

	got := ConvertHTMLTables(b.String())
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 22 {
		t.Fatalf("expected header + separator + 20 rows, got %d lines", len(lines))
	}
	if strings.Count(lines[0], "|") != 7 {
		t.Errorf("header row has wrong cell count: %q", lines[0])
	}
}

func TestNormalizeTables(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "ragged spacing",
			input: "|a|b|\n|  -  |-|\n|1  |  2|",
			want:  "| a | b |\n|-|-|\n| 1 | 2 |",
		},
		{
			name:  "alignment colons survive",
			input: "| a | b |\n| :--- | ---: |\n| 1 | 2 |",
			want:  "| a | b |\n|:---|---:|\n| 1 | 2 |",
		},
		{
			name:  "blank gap inside table is swallowed",
			input: "| a |\n|---|\n\n| 1 |",
			want:  "| a |\n|---|\n| 1 |",
		},
		{
			name:  "exactly one blank line around table",
			input: "text\n\n\n\n| a |\n|---|\n| 1 |\n\n\n\nmore",
			want:  "text\n\n| a |\n|---|\n| 1 |\n\nmore",
		},
		{
			name:  "prose untouched",
			input: "no tables here\njust text",
			want:  "no tables here\njust text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTables(tt.input); got != tt.want {
				t.Errorf("NormalizeTables() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractHeading(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"h2 heading", "## Newton's Laws\nbody", "Newton's Laws", true},
		{"bold heading text", "## **Gravity Basics**\nbody", "Gravity Basics", true},
		{"closed atx heading", "### Topic ###", "Topic", true},
		{"first heading wins", "prose\n# First\n## Second", "First", true},
		{"no heading", "just prose\nno headings", "", false},
		{"hash without space is not a heading", "#tag but not heading", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractHeading(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ExtractHeading(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRenderProducesTableHTML(t *testing.T) {
	html, err := Render("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(html, "<table>") || !strings.Contains(html, "<td>1</td>") {
		t.Errorf("Render() did not produce a table: %q", html)
	}
}
