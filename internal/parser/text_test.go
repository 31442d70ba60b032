package parser

import (
	"strings"
	"testing"
)

func TestTextParser_HeadingDetection(t *testing.T) {
	input := "Packing Checklist\n\nBring sunscreen and a hat.\n\nLocal Transport\n\nBuses run every twenty minutes."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "guide.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Title != "guide" {
		t.Errorf("expected title %q, got %q", "guide", tree.Title)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 heading nodes, got %d", len(tree.Children))
	}
	if tree.Children[0].Title != "Packing Checklist" {
		t.Errorf("expected first heading %q, got %q", "Packing Checklist", tree.Children[0].Title)
	}
	if !strings.Contains(tree.Children[0].Text, "sunscreen") {
		t.Errorf("expected first section body, got %q", tree.Children[0].Text)
	}
	if tree.Children[1].Title != "Local Transport" {
		t.Errorf("expected second heading %q, got %q", "Local Transport", tree.Children[1].Title)
	}
}

func TestTextParser_NoHeadings(t *testing.T) {
	// Paragraphs ending in sentence punctuation are prose, not headings, so a
	// headingless document collapses to a single body node.
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", tree.Title)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(tree.Children))
	}
	body := tree.Children[0].Text
	for _, want := range []string{"First paragraph line one.", "Second paragraph.", "Third paragraph."} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q, got %q", want, body)
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", tree.Title)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(tree.Children))
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	// Lines with only whitespace separate paragraphs just like blank lines.
	input := "Para one.\n   \nPara two."
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(tree.Children))
	}
	if !strings.Contains(tree.Children[0].Text, "Para one.") || !strings.Contains(tree.Children[0].Text, "Para two.") {
		t.Errorf("expected both paragraphs in body, got %q", tree.Children[0].Text)
	}
}

func TestLooksLikeHeadingLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Packing Checklist", true},
		{"3 Day Itinerary", true},
		{"This is a full sentence.", false},
		{"no leading capital", false},
		{"ab", false},
		{"One two three four five six seven eight nine ten eleven", false},
	}
	for _, tt := range tests {
		if got := looksLikeHeadingLine(tt.line); got != tt.want {
			t.Errorf("looksLikeHeadingLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
