// Package htmlfrag extracts element markup from demo HTML documents.
package htmlfrag

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// InnerHTML returns the inner markup of the first element named tag in doc,
// compacted: every line is trimmed and empty lines are dropped, then the
// lines are joined without separators. A missing element, an unparsable
// document, or an empty tag yields "".
func InnerHTML(doc []byte, tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" || len(doc) == 0 {
		return ""
	}

	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return ""
	}

	node := find(root, tag)
	if node == nil {
		return ""
	}

	var buf bytes.Buffer
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return compact(buf.String())
}

func find(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func compact(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}
