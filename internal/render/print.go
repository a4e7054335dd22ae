package render

import "strings"

const (
	entryIndent = "    "
	childIndent = "        "
	arrow       = "] => "
)

type printer struct {
	lines []string
}

// Lines prints n in the print_r layout and returns the lines:
//
//	map[string]int
//	(
//	    [a] => 1
//	    [b] => 2
//	)
func Lines(n *Node) []string {
	p := &printer{}
	p.node(n, "", "")
	return p.lines
}

// Print joins Lines with newlines.
func Print(n *Node) string {
	return strings.Join(Lines(n), "\n")
}

func (p *printer) node(n *Node, indent, lead string) {
	if !n.Container() {
		p.emit(lead + Display(n))
		return
	}
	p.emit(lead + n.Type)
	p.emit(indent + "(")
	for _, e := range n.Entries {
		p.node(e.Value, indent+childIndent, indent+entryIndent+"["+e.Key+arrow)
	}
	p.emit(indent + ")")
}

func (p *printer) emit(text string) {
	p.lines = append(p.lines, strings.Split(text, "\n")...)
}

// Segment is a piece of a printed line; Key marks the text inside a [key]
// marker so sinks can color it apart from values.
type Segment struct {
	Text string
	Key  bool
}

// Segments splits a printed line around its leading [key] marker.
func Segments(line string) []Segment {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]
	if !strings.HasPrefix(trimmed, "[") {
		return []Segment{{Text: line}}
	}
	end := strings.Index(trimmed, arrow)
	if end < 0 {
		return []Segment{{Text: line}}
	}
	return []Segment{
		{Text: indent + "["},
		{Text: trimmed[1:end], Key: true},
		{Text: trimmed[end:]},
	}
}
