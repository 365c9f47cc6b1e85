package record

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/rezonia/einvoice-converter/internal/model"
)

// ParseJSON reads an interchange JSON object into a tree named root.
// Object key order is kept and null values are dropped.
func ParseJSON(data []byte, root string) (*Node, error) {
	if !gjson.ValidBytes(data) {
		return nil, model.NewParseError(model.SourceJSON, "root", "invalid JSON document", nil)
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil, model.NewParseError(model.SourceJSON, "root", "top-level value is not an object", nil)
	}
	n := NewSection(root)
	fillFromJSON(n, res)
	return n, nil
}

func fillFromJSON(parent *Node, res gjson.Result) {
	res.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if res.IsArray() {
			name = itemName(parent.Name)
		}
		if c := nodeFromJSON(name, value); c != nil {
			parent.Children = append(parent.Children, c)
		}
		return true
	})
}

func nodeFromJSON(name string, value gjson.Result) *Node {
	switch {
	case value.IsObject():
		n := NewSection(name)
		fillFromJSON(n, value)
		return n
	case value.IsArray():
		n := NewList(name)
		fillFromJSON(n, value)
		return n
	}
	switch value.Type {
	case gjson.Null:
		return nil
	case gjson.Number:
		return &Node{Name: name, Kind: KindNumber, Value: value.Raw}
	case gjson.True, gjson.False:
		return &Node{Name: name, Kind: KindBool, Value: value.String()}
	default:
		return &Node{Name: name, Kind: KindString, Value: value.String()}
	}
}

func itemName(list string) string {
	if list == "sub_items" {
		return SubItemName
	}
	return ItemName
}

// JSON renders the children of n as a pretty-printed JSON object
func (n *Node) JSON() ([]byte, error) {
	raw, err := n.rawJSON()
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(raw), nil
}

func (n *Node) rawJSON() ([]byte, error) {
	var (
		buf []byte
		err error
	)
	if n.Kind == KindList {
		buf = []byte("[]")
	} else {
		buf = []byte("{}")
	}
	for _, c := range n.Children {
		path := "-1"
		if n.Kind != KindList {
			path = escapeKey(c.Name)
		}
		switch c.Kind {
		case KindSection, KindList:
			var v []byte
			if v, err = c.rawJSON(); err != nil {
				return nil, err
			}
			buf, err = sjson.SetRawBytes(buf, path, v)
		case KindNumber:
			if gjson.Valid(c.Value) {
				buf, err = sjson.SetRawBytes(buf, path, []byte(c.Value))
			} else {
				buf, err = sjson.SetBytes(buf, path, c.Value)
			}
		case KindBool:
			buf, err = sjson.SetBytes(buf, path, c.Value == "true")
		default:
			buf, err = sjson.SetBytes(buf, path, c.Value)
		}
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

var keyEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)

func escapeKey(key string) string {
	return keyEscaper.Replace(key)
}
