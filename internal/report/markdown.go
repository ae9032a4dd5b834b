package report

import (
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

func newParser() *parser.Parser {
	return parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
}

// MarkdownHTML renders a comment to HTML. Raw HTML in the source is dropped
// and links with unsafe schemes lose their href.
func MarkdownHTML(source string) template.HTML {
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML | html.Safelink})
	out := markdown.ToHTML([]byte(source), newParser(), renderer)
	return template.HTML(out)
}

// MarkdownText flattens a comment to plain text for the PDF, keeping
// paragraph breaks and prefixing list items with "- ".
func MarkdownText(source string) string {
	doc := markdown.Parse([]byte(source), newParser())

	var b strings.Builder
	newline := func() {
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
			b.WriteByte('\n')
		}
	}
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				b.Write(n.Literal)
			}
		case *ast.Code:
			if entering {
				b.Write(n.Literal)
			}
		case *ast.Softbreak:
			if entering {
				b.WriteByte(' ')
			}
		case *ast.Hardbreak:
			if entering {
				b.WriteByte('\n')
			}
		case *ast.ListItem:
			if entering {
				newline()
				b.WriteString("- ")
			} else {
				newline()
			}
		case *ast.Paragraph, *ast.Heading, *ast.CodeBlock:
			if cb, ok := n.(*ast.CodeBlock); ok && entering {
				b.Write(cb.Literal)
			}
			if !entering {
				newline()
			}
		}
		return ast.GoToNext
	})
	return strings.TrimSpace(b.String())
}
