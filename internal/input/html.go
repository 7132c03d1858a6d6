package input

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Elements that end a line of visible text
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "footer": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"li": true, "main": true, "nav": true, "ol": true, "p": true,
	"pre": true, "section": true, "table": true, "td": true, "th": true,
	"tr": true, "ul": true, "title": true,
}

// VisibleText parses an HTML document and returns its visible text.
// Block elements end a line so the linebreak rule sees paragraph breaks.
func VisibleText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	var buf strings.Builder
	lineStart := true
	pendingSpace := false

	newline := func() {
		if !lineStart {
			buf.WriteString("\n")
		}
		lineStart = true
		pendingSpace = false
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template", "svg":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.Join(strings.Fields(n.Data), " ")
			if text == "" {
				pendingSpace = pendingSpace || n.Data != ""
				return
			}
			if !lineStart && (pendingSpace || isSpace(n.Data[0])) {
				buf.WriteString(" ")
			}
			buf.WriteString(text)
			lineStart = false
			pendingSpace = isSpace(n.Data[len(n.Data)-1])
			return
		}

		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			newline()
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			newline()
		}
	}

	walk(doc)
	return strings.TrimRight(buf.String(), "\n"), nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
