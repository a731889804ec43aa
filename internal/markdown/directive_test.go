// File: internal/markdown/directive_test.go
package markdown

import "testing"

const fencedDirective = "```imagePrompt\na free body diagram of a block on an incline\n```"

func TestHasImageDirective(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"directive with a prompt", "text\n" + fencedDirective, true},
		{"whitespace-only prompt still counts", "text\n```imagePrompt\n   \n```", true},
		{"ordinary code block", "```go\nfmt.Println(1)\n```", false},
		{"no fences", "plain answer", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasImageDirective(tt.input); got != tt.want {
				t.Errorf("HasImageDirective() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractImagePrompt(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "directive with surrounding prose",
			input:  "Here is the setup.\n\n" + fencedDirective + "\n\nAs shown above.",
			want:   "a free body diagram of a block on an incline",
			wantOK: true,
		},
		{
			name:   "first of two directives wins",
			input:  "```imagePrompt\nfirst\n```\ntext\n```imagePrompt\nsecond\n```",
			want:   "first",
			wantOK: true,
		},
		{
			name:   "empty prompt is ignored",
			input:  "```imagePrompt\n\n```",
			want:   "",
			wantOK: false,
		},
		{
			name:   "no directive",
			input:  "plain answer with a normal code block\n```go\nfmt.Println(1)\n```",
			want:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractImagePrompt(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ExtractImagePrompt() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestStripImageDirectives(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single directive removed without leaving a gap",
			input: "Before.\n\n" + fencedDirective + "\n\nAfter.",
			want:  "Before.\n\nAfter.",
		},
		{
			name:  "all directives removed",
			input: "```imagePrompt\nfirst\n```\nmiddle\n```imagePrompt\nsecond\n```",
			want:  "middle",
		},
		{
			name:  "content without directives is only trimmed",
			input: "  plain text  ",
			want:  "plain text",
		},
		{
			name:  "directive-only content becomes empty",
			input: fencedDirective,
			want:  "",
		},
		{
			name:  "whitespace-only directive removed",
			input: "Answer text.\n\n```imagePrompt\n   \n```",
			want:  "Answer text.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripImageDirectives(tt.input); got != tt.want {
				t.Errorf("StripImageDirectives() = %q, want %q", got, tt.want)
			}
		})
	}
}
