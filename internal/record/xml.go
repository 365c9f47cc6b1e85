package record

import (
	"github.com/beevik/etree"

	"github.com/rezonia/einvoice-converter/internal/model"
)

// ParseXML reads an interchange XML document. An element without child
// elements becomes a string leaf holding its text verbatim.
func ParseXML(data []byte) (*Node, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, model.NewParseError(model.SourceXML, "root", "failed to parse XML", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, model.NewParseError(model.SourceXML, "root", "document has no root element", nil)
	}
	return fromElement(root), nil
}

func fromElement(el *etree.Element) *Node {
	children := el.ChildElements()
	if len(children) == 0 {
		return &Node{Name: el.Tag, Kind: KindString, Value: el.Text()}
	}
	n := NewSection(el.Tag)
	for _, c := range children {
		n.Children = append(n.Children, fromElement(c))
	}
	return n
}

// XML renders the tree as an indented document with an XML declaration,
// using the node name as root element.
func (n *Node) XML() ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	writeElement(doc.CreateElement(n.Name), n)
	doc.Indent(2)
	return doc.WriteToBytes()
}

func writeElement(el *etree.Element, n *Node) {
	if n.IsLeaf() {
		el.SetText(n.Value)
		return
	}
	for _, c := range n.Children {
		writeElement(el.CreateElement(c.Name), c)
	}
}
