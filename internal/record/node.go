// Package record holds the ordered section tree shared by every interchange
// vocabulary: the friendly extractor output, the intermediate XML and the
// intermediate JSON. Absent values are never stored, so every serialization
// of a tree omits them.
package record

// Kind is the value hint of a node
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindSection
	KindList
)

// List item element names
const (
	ItemName    = "item"
	SubItemName = "sub_item"
)

// Node is one element of a record tree. Leaves carry Value; sections and
// lists carry ordered Children. Duplicate child names are allowed.
type Node struct {
	Name     string
	Kind     Kind
	Value    string
	Children []*Node
}

// NewSection creates an empty section node
func NewSection(name string) *Node {
	return &Node{Name: name, Kind: KindSection}
}

// NewList creates an empty list node
func NewList(name string) *Node {
	return &Node{Name: name, Kind: KindList}
}

// IsLeaf reports whether the node carries a scalar value
func (n *Node) IsLeaf() bool {
	return n.Kind != KindSection && n.Kind != KindList
}

// Add appends child and returns it
func (n *Node) Add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Set appends a leaf with the given kind. Nil values are skipped.
func (n *Node) Set(name string, kind Kind, value *string) {
	if value == nil {
		return
	}
	n.Children = append(n.Children, &Node{Name: name, Kind: kind, Value: *value})
}

// SetString appends a string leaf when value is non-nil
func (n *Node) SetString(name string, value *string) {
	n.Set(name, KindString, value)
}

// Child returns the first child with name, or nil
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Last returns the last child with name, or nil
func (n *Node) Last(name string) *Node {
	if n == nil {
		return nil
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		if n.Children[i].Name == name {
			return n.Children[i]
		}
	}
	return nil
}

// Lookup follows path from n, returning nil when any step is missing
func (n *Node) Lookup(path ...string) *Node {
	cur := n
	for _, p := range path {
		cur = cur.Child(p)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Ensure returns the section child called name, creating it when missing
func (n *Node) Ensure(name string) *Node {
	if c := n.Child(name); c != nil {
		return c
	}
	return n.Add(NewSection(name))
}

// Text returns the value of the leaf child called name. When a name is
// repeated the last occurrence wins.
func (n *Node) Text(name string) (string, bool) {
	c := n.Last(name)
	if c == nil || !c.IsLeaf() {
		return "", false
	}
	return c.Value, true
}

// Items returns the children of a list node
func (n *Node) Items() []*Node {
	if n == nil {
		return nil
	}
	return n.Children
}

// Empty reports whether the node has no children and no value
func (n *Node) Empty() bool {
	return n == nil || (len(n.Children) == 0 && n.Value == "")
}

// Prune removes sections and lists that ended up without children.
// Lists are kept when keepLists is set so that empty sequences survive.
func (n *Node) Prune(keepLists bool) {
	kept := n.Children[:0]
	for _, c := range n.Children {
		if !c.IsLeaf() {
			c.Prune(keepLists)
			if len(c.Children) == 0 && !(keepLists && c.Kind == KindList) {
				continue
			}
		}
		kept = append(kept, c)
	}
	n.Children = kept
}
