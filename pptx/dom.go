package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
)

// Node is one element of a raw XML tree. Element and attribute names keep
// their prefixes verbatim ("p:sp", "r:embed") and no namespace resolution
// happens, so a serialized tree carries the same prefixes the package
// shipped with. Text is only meaningful on leaf elements (a:t).
type Node struct {
	Name     string
	Attrs    []xml.Attr
	Children []*Node
	Text     string
}

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

func rawName(n xml.Name) string {
	if n.Space != "" {
		return n.Space + ":" + n.Local
	}
	return n.Local
}

// parseXML builds a Node tree from an XML part. The decoder honors the
// part's declared charset; the tree always serializes back as UTF-8.
func parseXML(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var root *Node
	var stack []*Node
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: rawName(t.Name)}
			n.Attrs = append(n.Attrs, t.Attr...)
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced end element %s", rawName(t.Name))
			}
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			// Inter-element whitespace is formatting, not content.
			if len(n.Children) > 0 && strings.TrimSpace(n.Text) == "" {
				n.Text = ""
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("unclosed element %s", stack[len(stack)-1].Name)
	}
	return root, nil
}

// marshalXML serializes the tree with an XML declaration.
func marshalXML(root *Node) []byte {
	var b bytes.Buffer
	b.WriteString(xmlDeclaration)
	writeNode(&b, root)
	return b.Bytes()
}

func writeNode(b *bytes.Buffer, n *Node) {
	b.WriteByte('<')
	b.WriteString(n.Name)
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(rawName(a.Name))
		b.WriteString(`="`)
		xml.EscapeText(b, []byte(a.Value))
		b.WriteByte('"')
	}
	if len(n.Children) == 0 && n.Text == "" {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	if len(n.Children) == 0 {
		xml.EscapeText(b, []byte(n.Text))
	}
	for _, c := range n.Children {
		writeNode(b, c)
	}
	b.WriteString("</")
	b.WriteString(n.Name)
	b.WriteByte('>')
}

func loadXMLFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return root, nil
}

func saveXMLFile(path string, root *Node) error {
	return os.WriteFile(path, marshalXML(root), 0644)
}

// local returns the element name without its prefix.
func (n *Node) local() string {
	if i := strings.IndexByte(n.Name, ':'); i >= 0 {
		return n.Name[i+1:]
	}
	return n.Name
}

// child returns the first child with the given local name, or nil.
func (n *Node) child(local string) *Node {
	for _, c := range n.Children {
		if c.local() == local {
			return c
		}
	}
	return nil
}

// attr returns the value of the attribute with the given raw name.
func (n *Node) attr(name string) string {
	for _, a := range n.Attrs {
		if rawName(a.Name) == name {
			return a.Value
		}
	}
	return ""
}

// setAttr sets or adds an attribute by raw name.
func (n *Node) setAttr(name, value string) {
	for i, a := range n.Attrs {
		if rawName(a.Name) == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// insertChild inserts c at index i, clamped to the child list bounds.
func (n *Node) insertChild(i int, c *Node) {
	if i < 0 {
		i = 0
	}
	if i > len(n.Children) {
		i = len(n.Children)
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[i+1:], n.Children[i:])
	n.Children[i] = c
}

// removeChildren drops every direct child whose local name is in locals.
func (n *Node) removeChildren(locals ...string) {
	drop := make(map[string]bool, len(locals))
	for _, l := range locals {
		drop[l] = true
	}
	kept := n.Children[:0]
	for _, c := range n.Children {
		if !drop[c.local()] {
			kept = append(kept, c)
		}
	}
	n.Children = kept
}
