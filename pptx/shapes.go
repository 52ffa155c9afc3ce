package pptx

// ShapeKind classifies the shape elements a slide's shape tree can hold.
type ShapeKind int

const (
	ShapeOther ShapeKind = iota
	ShapeTextFrame
	ShapeTable
	ShapeGroup
	ShapePicture
)

// kindOf classifies a direct child of a spTree or grpSp element. An sp
// without a txBody and a graphicFrame without a table both fall back to
// ShapeOther and are never modified.
func kindOf(n *Node) ShapeKind {
	switch n.local() {
	case "sp":
		if n.child("txBody") != nil {
			return ShapeTextFrame
		}
		return ShapeOther
	case "graphicFrame":
		if findTable(n) != nil {
			return ShapeTable
		}
		return ShapeOther
	case "grpSp":
		return ShapeGroup
	case "pic":
		return ShapePicture
	default:
		return ShapeOther
	}
}

// findTable digs a:tbl out of a graphicFrame, or nil.
func findTable(frame *Node) *Node {
	g := frame.child("graphic")
	if g == nil {
		return nil
	}
	gd := g.child("graphicData")
	if gd == nil {
		return nil
	}
	return gd.child("tbl")
}

// findSpTree locates the slide's shape tree (p:sld → p:cSld → p:spTree).
func findSpTree(slide *Node) *Node {
	cSld := slide.child("cSld")
	if cSld == nil {
		return nil
	}
	return cSld.child("spTree")
}

// textBodies collects every txBody in the slide, descending into nested
// groups with an explicit stack so that arbitrarily deep grouping cannot
// exhaust the call stack. Table cells are visited uniformly with plain
// text frames; pictures and unclassified shapes are skipped.
func textBodies(slide *Node) []*Node {
	tree := findSpTree(slide)
	if tree == nil {
		return nil
	}
	var bodies []*Node
	stack := append([]*Node(nil), tree.Children...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch kindOf(n) {
		case ShapeTextFrame:
			bodies = append(bodies, n.child("txBody"))
		case ShapeTable:
			tbl := findTable(n)
			for _, tr := range tbl.Children {
				if tr.local() != "tr" {
					continue
				}
				for _, tc := range tr.Children {
					if tc.local() != "tc" {
						continue
					}
					if b := tc.child("txBody"); b != nil {
						bodies = append(bodies, b)
					}
				}
			}
		case ShapeGroup:
			stack = append(stack, n.Children...)
		case ShapePicture, ShapeOther:
			// Not text-bearing.
		}
	}
	return bodies
}
