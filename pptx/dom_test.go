package pptx

import (
	"strings"
	"testing"
)

func TestParseMarshalKeepsPrefixes(t *testing.T) {
	in := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:p="` + nsPresentation + `" xmlns:a="` + nsDrawing + `"><p:cSld><p:spTree><a:t>A &amp; B &lt;ok&gt;</a:t></p:spTree></p:cSld></p:sld>`

	root, err := parseXML([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	if root.Name != "p:sld" {
		t.Fatalf("root = %s, want p:sld", root.Name)
	}
	out := string(marshalXML(root))
	for _, want := range []string{
		`xmlns:p="` + nsPresentation + `"`,
		"<p:cSld><p:spTree>",
		"<a:t>A &amp; B &lt;ok&gt;</a:t>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("serialized tree missing %q:\n%s", want, out)
		}
	}

	// Re-parsing the output must yield the same text content.
	again, err := parseXML([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	leaf := again.child("cSld").child("spTree").child("t")
	if leaf == nil || leaf.Text != "A & B <ok>" {
		t.Fatalf("text after round trip = %+v", leaf)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, in := range []string{
		"",
		"<a><b></a>",
		"<a>",
		"<a/><b/>",
	} {
		if _, err := parseXML([]byte(in)); err == nil {
			t.Errorf("parse(%q) succeeded", in)
		}
	}
}

func TestMarshalSelfClosesEmptyElements(t *testing.T) {
	root, err := parseXML([]byte(`<a:p><a:pPr algn="l"></a:pPr></a:p>`))
	if err != nil {
		t.Fatal(err)
	}
	out := string(marshalXML(root))
	if !strings.Contains(out, `<a:pPr algn="l"/>`) {
		t.Fatalf("empty element not self-closed:\n%s", out)
	}
}

func TestNodeHelpers(t *testing.T) {
	root, err := parseXML([]byte(`<a:rPr lang="en-US"><a:ln/><a:solidFill/><a:latin typeface="Arial"/></a:rPr>`))
	if err != nil {
		t.Fatal(err)
	}
	if root.local() != "rPr" {
		t.Errorf("local() = %s", root.local())
	}
	if root.attr("lang") != "en-US" {
		t.Errorf("attr(lang) = %q", root.attr("lang"))
	}

	root.setAttr("lang", "fr-FR")
	root.setAttr("i", "0")
	if root.attr("lang") != "fr-FR" || root.attr("i") != "0" {
		t.Errorf("setAttr: lang=%q i=%q", root.attr("lang"), root.attr("i"))
	}

	root.removeChildren("solidFill", "latin")
	if root.child("solidFill") != nil || root.child("latin") != nil {
		t.Error("removeChildren left matching children")
	}
	if root.child("ln") == nil {
		t.Error("removeChildren dropped an unrelated child")
	}

	root.insertChild(0, &Node{Name: "a:lnSpc"})
	root.insertChild(99, &Node{Name: "a:extLst"})
	if root.Children[0].Name != "a:lnSpc" || root.Children[len(root.Children)-1].Name != "a:extLst" {
		t.Errorf("insertChild order: %v", nodeNames(root.Children))
	}
}

func nodeNames(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}
