package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const xhtmlNamespace = "http://www.w3.org/1999/xhtml"

// Render serialises n as HTML. An <html> root is preceded by the HTML5
// doctype.
func Render(w io.Writer, n *Node) error {
	if n == nil {
		return errors.New("markup: node is nil")
	}
	target := n.toHTML()
	if n.kind == ElementNode && n.tag == "html" {
		doc := &html.Node{Type: html.DocumentNode}
		doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
		doc.AppendChild(target)
		target = doc
	}
	if err := html.Render(w, target); err != nil {
		return fmt.Errorf("markup: render html: %w", err)
	}
	return nil
}

// String renders n to a string, returning "" on failure.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// Encode serialises n as HTML in the requested character encoding. Runes the
// target encoding cannot represent are written as numeric character
// references. An empty charset means UTF-8.
func Encode(w io.Writer, n *Node, charset string) error {
	enc, err := lookupEncoding(charset)
	if err != nil {
		return err
	}
	if enc == nil {
		return Render(w, n)
	}
	tw := transform.NewWriter(w, encoding.HTMLEscapeUnsupported(enc.NewEncoder()))
	if err := Render(tw, n); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("markup: flush %s encoder: %w", charset, err)
	}
	return nil
}

// ContentType returns the media type header value for an HTML payload in the
// given charset.
func ContentType(charset string) string {
	name, err := CanonicalCharset(charset)
	if err != nil || name == "" {
		name = "utf-8"
	}
	return "text/html; charset=" + name
}

// CanonicalCharset normalises a charset label using the WHATWG encoding index.
func CanonicalCharset(charset string) (string, error) {
	charset = strings.TrimSpace(charset)
	if charset == "" {
		return "utf-8", nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", fmt.Errorf("markup: unsupported charset %q: %w", charset, err)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return "", fmt.Errorf("markup: unsupported charset %q: %w", charset, err)
	}
	return strings.ToLower(name), nil
}

func lookupEncoding(charset string) (encoding.Encoding, error) {
	name, err := CanonicalCharset(charset)
	if err != nil {
		return nil, err
	}
	if name == "utf-8" {
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("markup: unsupported charset %q: %w", charset, err)
	}
	return enc, nil
}

// EncodeXHTML serialises n as an XML document. An <html> root receives the
// XHTML namespace when it does not declare one.
func EncodeXHTML(w io.Writer, n *Node) error {
	if n == nil {
		return errors.New("markup: node is nil")
	}
	if n.kind != ElementNode {
		return errors.New("markup: xhtml root must be an element")
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(n.tag)
	appendEtree(root, n)
	if n.tag == "html" && root.SelectAttr("xmlns") == nil {
		root.CreateAttr("xmlns", xhtmlNamespace)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("markup: write xhtml: %w", err)
	}
	return nil
}

func appendEtree(target *etree.Element, n *Node) {
	for _, attr := range n.Attrs() {
		target.CreateAttr(attr.Name, attr.Value)
	}
	for _, child := range n.children {
		switch child.kind {
		case TextNode:
			target.CreateText(child.text)
		case ElementNode:
			appendEtree(target.CreateElement(child.tag), child)
		}
	}
}

func (n *Node) toHTML() *html.Node {
	if n.kind == TextNode {
		return &html.Node{Type: html.TextNode, Data: n.text}
	}
	out := &html.Node{
		Type:     html.ElementNode,
		Data:     n.tag,
		DataAtom: atom.Lookup([]byte(n.tag)),
	}
	for pair := n.attrs.Oldest(); pair != nil; pair = pair.Next() {
		out.Attr = append(out.Attr, html.Attribute{Key: pair.Key, Val: pair.Value})
	}
	for _, child := range n.children {
		out.AppendChild(child.toHTML())
	}
	return out
}

// ParseFragment parses an HTML fragment in a <body> context into unattached
// nodes. Comments and doctypes are dropped.
func ParseFragment(fragment string) ([]*Node, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, nil
	}
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	parsed, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, fmt.Errorf("markup: parse fragment: %w", err)
	}
	out := make([]*Node, 0, len(parsed))
	for _, node := range parsed {
		if converted := fromHTML(node); converted != nil {
			out = append(out, converted)
		}
	}
	return out, nil
}

// MustParseFragment panics when the fragment cannot be parsed. Useful for
// static head content.
func MustParseFragment(fragment string) []*Node {
	nodes, err := ParseFragment(fragment)
	if err != nil {
		panic(err)
	}
	return nodes
}

func fromHTML(src *html.Node) *Node {
	switch src.Type {
	case html.TextNode:
		return Text(src.Data)
	case html.ElementNode:
		el := Element(src.Data)
		for _, attr := range src.Attr {
			name := attr.Key
			if attr.Namespace != "" {
				name = attr.Namespace + ":" + attr.Key
			}
			el.SetAttr(name, attr.Val)
		}
		for child := src.FirstChild; child != nil; child = child.NextSibling {
			if converted := fromHTML(child); converted != nil {
				el.Append(converted)
			}
		}
		return el
	default:
		return nil
	}
}
