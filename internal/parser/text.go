package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/docrank/internal/doctree"
)

// TextParser handles plain text files. Paragraphs are blank-line separated;
// a standalone short unpunctuated paragraph is treated as a section heading.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	tree := &doctree.DocTree{Title: baseTitle(filename)}
	b := newTreeBuilder(tree.Title)

	for _, para := range paragraphs {
		if trimmed := strings.TrimSpace(para); !strings.Contains(trimmed, "\n") && looksLikeHeadingLine(trimmed) {
			b.Heading(1, trimmed)
			continue
		}
		b.Text(para)
	}

	tree.Children = b.Finish()
	return tree, nil
}
