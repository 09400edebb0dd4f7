package meteoam

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Document is a parsed location page
type Document struct {
	root *html.Node
}

// Node is a single element of the Document
// Navigation methods return nil when nothing matches.
type Node struct {
	node *html.Node
}

// ParseDocument parses raw page content into a Document
// The parser is tolerant of malformed markup the same way browsers are.
func ParseDocument(body []byte) (*Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	return &Document{root: root}, nil
}

// FindByID returns the first element with the given id attribute
func (d *Document) FindByID(id string) *Node {
	return wrap(htmlquery.FindOne(d.root, fmt.Sprintf("//*[@id='%s']", id)))
}

// FindAll returns all elements with the given tag carrying the class token
func (d *Document) FindAll(tag, class string) []*Node {
	return wrapAll(htmlquery.Find(d.root, fmt.Sprintf("//%s[%s]", tag, hasClass(class))))
}

// PageHeader returns the first h1 heading with the page-header class
func (d *Document) PageHeader() *Node {
	headers := d.FindAll("h1", "page-header")
	if len(headers) == 0 {
		return nil
	}

	return headers[0]
}

// FindFirst returns the first descendant element with the given tag
func (n *Node) FindFirst(tag string) *Node {
	return wrap(htmlquery.FindOne(n.node, ".//"+tag))
}

// FindAll returns all descendant elements with the given tag in document order
func (n *Node) FindAll(tag string) []*Node {
	return wrapAll(htmlquery.Find(n.node, ".//"+tag))
}

// Attr returns the value of the attribute and whether it is present
func (n *Node) Attr(key string) (string, bool) {
	if !htmlquery.ExistsAttr(n.node, key) {
		return "", false
	}

	return htmlquery.SelectAttr(n.node, key), true
}

// Classes returns the class tokens of the element in the order they appear
func (n *Node) Classes() []string {
	class, _ := n.Attr("class")
	return strings.Fields(class)
}

// Text returns the concatenated text of the element and all its descendants
func (n *Node) Text() string {
	return htmlquery.InnerText(n.node)
}

func hasClass(class string) string {
	return fmt.Sprintf("contains(concat(' ', normalize-space(@class), ' '), ' %s ')", class)
}

func wrap(node *html.Node) *Node {
	if node == nil {
		return nil
	}

	return &Node{node: node}
}

func wrapAll(nodes []*html.Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, node := range nodes {
		out[i] = &Node{node: node}
	}

	return out
}
