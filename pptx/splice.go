package pptx

import (
	"bytes"
	"encoding/xml"
	"io"
)

// Element removal is done by splicing byte ranges out of the original part
// instead of re-serializing the document. A re-serialize would rewrite
// namespace prefixes and attribute order, and presentation editors are picky
// about both; splicing leaves every untouched byte exactly as it was.

// span is a half-open byte range [start, end) in the source document.
type span struct {
	start, end int64
}

// cutSpans returns data with the given spans removed. Spans must be sorted
// and non-overlapping, which the raw-token scan guarantees.
func cutSpans(data []byte, spans []span) []byte {
	if len(spans) == 0 {
		return data
	}
	out := make([]byte, 0, len(data))
	var pos int64
	for _, s := range spans {
		out = append(out, data[pos:s.start]...)
		pos = s.end
	}
	return append(out, data[pos:]...)
}

// rawAttr returns the value of the attribute with the given local name on a
// raw start element, ignoring the namespace prefix.
func rawAttr(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// removeRelationships strips every Relationship element whose Id is in ids.
// Returns the edited document and the number of elements removed.
func removeRelationships(data []byte, ids map[string]bool) ([]byte, int, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var spans []span
	var cutting bool
	var depth int
	var start int64

	for {
		before := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if cutting {
				depth++
				continue
			}
			if t.Name.Local == "Relationship" && ids[rawAttr(t, "Id")] {
				cutting = true
				depth = 1
				start = before
			}
		case xml.EndElement:
			if cutting {
				depth--
				if depth == 0 {
					spans = append(spans, span{start, dec.InputOffset()})
					cutting = false
				}
			}
		}
	}
	return cutSpans(data, spans), len(spans), nil
}

// removePictures strips every pic element whose blip embed id is in ids.
// The embed id only becomes known while scanning the pic subtree, so the
// cut decision is deferred to the subtree end.
func removePictures(data []byte, ids map[string]bool) ([]byte, int, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var spans []span
	var inPic bool
	var depth int
	var start int64
	var embed string

	for {
		before := dec.InputOffset()
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if inPic {
				depth++
				if t.Name.Local == "blip" {
					if v := rawAttr(t, "embed"); v != "" {
						embed = v
					}
				}
				continue
			}
			if t.Name.Local == "pic" {
				inPic = true
				depth = 1
				start = before
				embed = ""
			}
		case xml.EndElement:
			if inPic {
				depth--
				if depth == 0 {
					if embed != "" && ids[embed] {
						spans = append(spans, span{start, dec.InputOffset()})
					}
					inPic = false
				}
			}
		}
	}
	return cutSpans(data, spans), len(spans), nil
}
