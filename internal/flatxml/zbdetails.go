package flatxml

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/tidwall/gjson"

	"github.com/rezonia/einvoice-converter/internal/model"
)

// ParseZBDetails reads a payment-term detail fragment. The fragment is
// either an XML document whose root children become entries, or a JSON
// object whose members become entries. Names are upper-cased and values
// trimmed. An empty fragment yields an empty bag.
func ParseZBDetails(fragment string) (*model.AdditionalData, error) {
	data := model.NewAdditionalData()
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return data, nil
	}

	if strings.HasPrefix(fragment, "{") {
		if !gjson.Valid(fragment) {
			return nil, model.NewParseError(model.SourceZBDetails, model.KeyZBDetails, "invalid JSON object", nil)
		}
		gjson.Parse(fragment).ForEach(func(key, value gjson.Result) bool {
			data.Set(model.UpperKey(key.String()), strings.TrimSpace(value.String()))
			return true
		})
		return data, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(fragment); err != nil {
		return nil, model.NewParseError(model.SourceZBDetails, model.KeyZBDetails, "invalid XML fragment", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, model.NewParseError(model.SourceZBDetails, model.KeyZBDetails, "fragment has no root element", nil)
	}
	for _, el := range root.ChildElements() {
		data.Set(model.UpperKey(el.Tag), strings.TrimSpace(textContent(el)))
	}
	return data, nil
}
