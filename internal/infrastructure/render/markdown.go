// Package render 将完成的书稿导出为 HTML
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Heading 文档标题节点
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Renderer markdown 渲染器
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer 创建启用 GFM 与自动标题锚点的渲染器
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &Renderer{md: md}
}

// Headings 按文档顺序返回不超过 maxLevel 的标题
func (r *Renderer) Headings(source string, maxLevel int) []Heading {
	src := []byte(source)
	doc := r.md.Parser().Parse(text.NewReader(src))

	var out []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Level <= maxLevel {
			id, _ := h.AttributeString("id")
			idStr := ""
			if b, ok := id.([]byte); ok {
				idStr = string(b)
			}
			out = append(out, Heading{Level: h.Level, ID: idStr, Text: nodeText(h, src)})
		}
		return ast.WalkSkipChildren, nil
	})
	return out
}

// Document 渲染为独立 HTML 文档，一级标题生成目录
func (r *Renderer) Document(title, source string) ([]byte, error) {
	var body bytes.Buffer
	if err := r.md.Convert([]byte(source), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(title))
	buf.WriteString("</head>\n<body>\n")

	if toc := r.Headings(source, 1); len(toc) > 1 {
		buf.WriteString("<nav class=\"toc\">\n<ol>\n")
		for _, h := range toc {
			fmt.Fprintf(&buf, "<li><a href=\"#%s\">%s</a></li>\n", html.EscapeString(h.ID), html.EscapeString(h.Text))
		}
		buf.WriteString("</ol>\n</nav>\n")
	}

	buf.Write(body.Bytes())
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}

func nodeText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
