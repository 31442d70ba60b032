package parser

import (
	"strings"
	"unicode"

	"github.com/dgallion1/docrank/internal/doctree"
)

// looksLikeHeadingLine flags a standalone short line without sentence
// punctuation as a probable section title. Text-ish formats without heading
// markup (plain text, PDF extraction output) rely on it.
func looksLikeHeadingLine(line string) bool {
	if len(line) < 3 || len(line) > 80 {
		return false
	}
	if strings.ContainsAny(line, ".!?;,") {
		return false
	}
	if len(strings.Fields(line)) > 10 {
		return false
	}
	first := []rune(line)[0]
	return unicode.IsUpper(first) || unicode.IsDigit(first)
}

// treeBuilder assembles DocNodes from a linear stream of headings and text
// blocks. Headings open nodes nested by level; text accumulates on whichever
// node is open. Markdown, HTML, and DOCX parsing all reduce to this.
type treeBuilder struct {
	root  *doctree.DocNode
	stack []builderFrame
	buf   strings.Builder
	page  int
}

type builderFrame struct {
	node  *doctree.DocNode
	level int
}

func newTreeBuilder(title string) *treeBuilder {
	root := &doctree.DocNode{Title: title}
	return &treeBuilder{
		root:  root,
		stack: []builderFrame{{node: root, level: 0}},
	}
}

// SetPage marks the page subsequently opened nodes belong to. Formats without
// page geometry leave it at zero.
func (b *treeBuilder) SetPage(page int) {
	b.page = page
}

// Heading flushes pending text and opens a node at the given level, popping
// back up the stack until a shallower parent is found.
func (b *treeBuilder) Heading(level int, title string) {
	b.flush()
	node := &doctree.DocNode{Title: title, Page: b.page}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, node)
	b.stack = append(b.stack, builderFrame{node: node, level: level})
}

// Text appends a block of body text to the open node.
func (b *treeBuilder) Text(t string) {
	if t = strings.TrimSpace(t); t == "" {
		return
	}
	if b.buf.Len() > 0 {
		b.buf.WriteString("\n\n")
	}
	b.buf.WriteString(t)
}

func (b *treeBuilder) flush() {
	t := strings.TrimSpace(b.buf.String())
	b.buf.Reset()
	if t == "" {
		return
	}
	top := b.stack[len(b.stack)-1].node
	if top.Text != "" {
		top.Text += "\n\n" + t
	} else {
		top.Text = t
	}
	if top.Page == 0 {
		top.Page = b.page
	}
}

// Finish flushes pending text and returns the top-level nodes. A document
// with no headings collapses to a single body node.
func (b *treeBuilder) Finish() []*doctree.DocNode {
	b.flush()
	if len(b.root.Children) == 0 && b.root.Text != "" {
		return []*doctree.DocNode{{Text: b.root.Text, Page: b.root.Page}}
	}
	return b.root.Children
}
