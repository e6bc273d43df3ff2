package learnkit

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/awalterschulze/gographviz"
	"gorgonia.org/tensor"
)

type slotNode struct {
	ID    ID
	Name  string
	Kind  string
	Shape string
}

// ToDot renders the slots of a container as a Graphviz graph. label names the
// slots; it may be nil.
func ToDot(name string, s *Slots, label func(ID) string) string {
	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		panic(err)
	}
	g.SetDir(true)

	root := fmt.Sprintf("%q", name)
	g.AddNode("G", root, map[string]string{
		"shape": "box",
		"label": root,
	})

	var buf bytes.Buffer
	for i, v := range s.vals {
		n := slotNode{ID: ID(i), Name: fmt.Sprintf("%d", i), Kind: "unset", Shape: "-"}
		if label != nil {
			n.Name = label(ID(i))
		}
		if v != nil {
			n.Kind = fmt.Sprintf("%T", v)
		}
		if t, ok := v.(*tensor.Dense); ok {
			n.Shape = fmt.Sprintf("%v", t.Shape())
		}

		dotTmpl.Execute(&buf, n)
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		}
		buf.Reset()
		id := fmt.Sprintf("slot%d", i)
		g.AddNode("G", id, attrs)
		g.AddEdge(root, id, true, nil)
	}
	return g.String()
}

const dotTmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Slot</TD><TD>{{.ID}}</TD></TR>
<TR><TD>Name</TD><TD>{{.Name}}</TD></TR>
<TR><TD>Kind</TD><TD>{{.Kind}}</TD></TR>
<TR><TD>Shape</TD><TD>{{.Shape}}</TD></TR>
</TABLE>
>
`

var dotTmpl *template.Template

func init() {
	dotTmpl = template.Must(template.New("slot").Parse(dotTmplRaw))
}
