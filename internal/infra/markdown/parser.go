// Package markdown parses lesson bodies into the domain document model.
// It walks the goldmark AST once and keeps only what the checks need:
// headings, fenced code, links and images, each with a 1-based line number.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/docentkit/docent/internal/domain"
	"github.com/docentkit/docent/internal/ports"
)

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

var _ ports.DocumentParser = (*Parser)(nil)

func (p *Parser) Parse(src []byte) (domain.Document, error) {
	root := p.md.Parser().Parse(text.NewReader(src))

	var doc domain.Document

	// Inline nodes carry no position of their own; track the line of the
	// innermost block seen so far as a fallback.
	lastLine := 0

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if n.Type() == ast.TypeBlock {
			if lines := n.Lines(); lines != nil && lines.Len() > 0 {
				lastLine = lineAt(src, lines.At(0).Start)
			}
		}

		switch v := n.(type) {
		case *ast.Heading:
			line := lastLine
			if lines := v.Lines(); lines.Len() > 0 {
				line = lineAt(src, lines.At(0).Start)
			}
			doc.Blocks = append(doc.Blocks, domain.Block{
				Kind:  domain.BlockHeading,
				Line:  line,
				Level: v.Level,
				Text:  textOf(v, src),
			})

		case *ast.FencedCodeBlock:
			doc.Blocks = append(doc.Blocks, domain.Block{
				Kind: domain.BlockCode,
				Line: fenceLine(src, v, lastLine),
				Lang: string(v.Language(src)),
				Code: blockContent(src, v),
			})

		case *ast.CodeBlock:
			// Indented code has no info string, so no language.
			doc.Blocks = append(doc.Blocks, domain.Block{
				Kind: domain.BlockCode,
				Line: lastLine,
				Code: blockContent(src, v),
			})

		case *ast.Link:
			doc.Blocks = append(doc.Blocks, domain.Block{
				Kind:   domain.BlockLink,
				Line:   inlineLine(src, v, lastLine),
				Target: string(v.Destination),
				Label:  textOf(v, src),
			})

		case *ast.Image:
			doc.Blocks = append(doc.Blocks, domain.Block{
				Kind:   domain.BlockImage,
				Line:   inlineLine(src, v, lastLine),
				Target: string(v.Destination),
				Label:  textOf(v, src),
			})

		case *ast.AutoLink:
			doc.Blocks = append(doc.Blocks, domain.Block{
				Kind:   domain.BlockLink,
				Line:   lastLine,
				Target: string(v.URL(src)),
				Label:  string(v.Label(src)),
			})
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return domain.Document{}, &domain.OpError{
			Op:   "markdown.parse",
			Kind: domain.KindInvalidContent,
			Err:  err,
		}
	}

	return doc, nil
}

func textOf(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	collectText(n, src, &buf)
	return buf.String()
}

func collectText(n ast.Node, src []byte, buf *bytes.Buffer) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			collectText(c, src, buf)
		}
	}
}

// inlineLine locates an inline node through its first text descendant.
func inlineLine(src []byte, n ast.Node, fallback int) int {
	line := 0
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			line = lineAt(src, t.Segment.Start)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if line == 0 {
		return fallback
	}
	return line
}

// fenceLine points at the opening fence: the info string when tagged, the
// line above the first body line otherwise.
func fenceLine(src []byte, v *ast.FencedCodeBlock, fallback int) int {
	if v.Info != nil {
		return lineAt(src, v.Info.Segment.Start)
	}
	if lines := v.Lines(); lines.Len() > 0 {
		return lineAt(src, lines.At(0).Start) - 1
	}
	return fallback
}

func blockContent(src []byte, n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(src))
	}
	return buf.String()
}

func lineAt(src []byte, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	return bytes.Count(src[:offset], []byte("\n")) + 1
}
