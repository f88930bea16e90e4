// Package ingest prepares uploaded files for chunking.
package ingest

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"github.com/vavassoriluca/MongoDB-RAG/internal/service"
)

// ExtractText returns the plain text content of an uploaded file.
// Markdown files are parsed and stripped of markup so the chunker sees
// prose instead of syntax; everything else is treated as UTF-8 text.
func ExtractText(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &service.ValidationError{Field: "file", Message: "file is empty"}
	}
	if !utf8.Valid(data) {
		return "", &service.ValidationError{Field: "file", Message: "file is not valid UTF-8 text"}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return stripMarkdown(data), nil
	default:
		return string(data), nil
	}
}

// stripMarkdown walks the goldmark AST and collects the raw text segments,
// keeping block boundaries as newlines.
func stripMarkdown(content []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(gtext.NewReader(content))

	var b strings.Builder

	blockBreak := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteString("\n")
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.ListItem, *ast.Blockquote:
			blockBreak()
		case *ast.Text:
			b.Write(node.Segment.Value(content))
			if node.HardLineBreak() || node.SoftLineBreak() {
				b.WriteString("\n")
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeBlock:
			blockBreak()
			writeLines(&b, node.Lines(), content)
		case *ast.FencedCodeBlock:
			blockBreak()
			writeLines(&b, node.Lines(), content)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

func writeLines(b *strings.Builder, lines *gtext.Segments, content []byte) {
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(content))
	}
}
