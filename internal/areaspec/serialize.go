package areaspec

import "strings"

// Serialize renders doc as canonical area specification text.
// Fields are always written in x, y, width, height order and blocks are
// separated by a blank line. Parse(Serialize(doc)) reproduces doc.
func Serialize(doc Document) string {
	blocks := make([]string, len(doc))
	for i, area := range doc {
		blocks[i] = area.String()
	}
	return strings.Join(blocks, "\n\n")
}

// String renders a single area block.
func (a Area) String() string {
	var sb strings.Builder
	sb.WriteString(a.Selector.String())
	sb.WriteString(" {\n")
	for _, name := range fieldNames {
		sb.WriteString("   ")
		sb.WriteString(name)
		sb.WriteString(": ")
		if d := a.get(name); d != nil {
			sb.WriteString(d.String())
		}
		sb.WriteString(";\n")
	}
	sb.WriteString("}")
	return sb.String()
}
