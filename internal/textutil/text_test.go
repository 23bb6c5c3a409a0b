package textutil

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "multiple types of whitespace",
			input: "Hello \t World  with\n\rmultiple  spaces",
			want:  "Hello World with multiple spaces",
		},
		{
			name:  "leading and trailing whitespace",
			input: "  hello world  ",
			want:  "hello world",
		},
		{
			name:  "newline runs",
			input: "first\n\n\n\nsecond\n\n\nthird",
			want:  "first second third",
		},
		{
			name:  "zero width characters",
			input: "zero\u200Bwidth\u200Cjoin\u200Dend\uFEFF",
			want:  "zerowidthjoinend",
		},
		{
			name:  "zero width between spaces",
			input: "a \u200B b",
			want:  "a b",
		},
		{
			name:  "non-breaking space",
			input: "a\u00A0\u00A0b",
			want:  "a b",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only invisible",
			input: "\uFEFF\u200B ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanTextIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"  lots   of\t\tspace \n\n\n\n here ",
		"a \u200B b\uFEFF c",
		"\u200B\u200C\u200D",
		"line\r\n\r\n\r\nbreaks\u00A0and\u2003em spaces",
	}
	for _, in := range inputs {
		once := CleanText(in)
		if twice := CleanText(once); twice != once {
			t.Errorf("CleanText not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"  a   b  c ", 3},
		{"one", 1},
		{"\n\t", 0},
		{"tabs\tand\nnewlines count", 4},
	}
	for _, tt := range tests {
		if got := CountWords(tt.input); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tt := range tests {
		if got := ReadingTime(tt.words); got != tt.want {
			t.Errorf("ReadingTime(%d) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("héllo wörld", 5); got != "héllo..." {
		t.Errorf("Truncate() = %q, want %q", got, "héllo...")
	}
	if got := Truncate("anything", 0); got != "anything" {
		t.Errorf("Truncate() with zero limit = %q", got)
	}
}

func TestKeywords(t *testing.T) {
	text := "Go tooling: the compiler, the linker. Compiler errors; LINKER flags, compiler!"
	got := Keywords(text, 0)

	if len(got) != 5 {
		t.Fatalf("Keywords() returned %d terms, want 5: %v", len(got), got)
	}
	if got[0].Word != "compiler" || got[0].Count != 3 {
		t.Errorf("first keyword = %v, want compiler (3)", got[0])
	}
	if got[1].Word != "linker" || got[1].Count != 2 {
		t.Errorf("second keyword = %v, want linker (2)", got[1])
	}
	// equal counts keep first occurrence order
	if got[2].Word != "tooling" || got[3].Word != "errors" || got[4].Word != "flags" {
		t.Errorf("tie order = %v", got[2:])
	}

	formatted := FormatKeywords(got[:2])
	if formatted != "Key terms found: compiler (3), linker (2)" {
		t.Errorf("FormatKeywords() = %q", formatted)
	}
}

func TestKeywordsLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString(strings.Repeat(string(rune('a'+i%26)), 4+i/26))
		b.WriteString(" ")
	}
	if got := Keywords(b.String(), 0); len(got) != DefaultKeywordLimit {
		t.Errorf("Keywords() returned %d terms, want %d", len(got), DefaultKeywordLimit)
	}
	if got := Keywords(b.String(), 5); len(got) != 5 {
		t.Errorf("Keywords(5) returned %d terms", len(got))
	}
}
