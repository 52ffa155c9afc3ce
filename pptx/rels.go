package pptx

import (
	"encoding/xml"
	"path"
	"strings"
)

// OPC namespaces. These must survive every edit verbatim so that
// presentation editors keep accepting the package.
const (
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsPresentation  = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawing       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsDocRels       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// Relationship is one entry of an OPC relationship part.
type Relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationshipsDoc struct {
	XMLName xml.Name       `xml:"Relationships"`
	Rels    []Relationship `xml:"Relationship"`
}

func parseRelationships(data []byte) ([]Relationship, error) {
	var doc relationshipsDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Rels, nil
}

// isImageRel reports whether a relationship dereferences embedded image data.
func isImageRel(r Relationship) bool {
	return strings.Contains(r.Type, "image")
}

// resolveTarget resolves a relationship target against the directory of the
// part that owns the relationship file, returning a clean container-root
// relative slash path. Targets starting with "/" are already root relative;
// others may climb with "../" segments (e.g. "../media/image1.png" from
// ppt/slides).
func resolveTarget(partDir, target string) string {
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	return path.Join(partDir, target)
}
