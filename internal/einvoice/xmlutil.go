package einvoice

import (
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	money "github.com/rezonia/einvoice-converter/internal/decimal"
)

// CII namespaces
const (
	NamespaceRSM = "urn:un:unece:uncefact:data:standard:CrossIndustryInvoice:100"
	NamespaceRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	NamespaceUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
	NamespaceQDT = "urn:un:unece:uncefact:data:standard:QualifiedDataType:100"
)

// DateFormat102 is the CCYYMMDD layout of date format code 102
const DateFormat102 = "20060102"

// add appends a ram element holding text; empty text adds nothing
func add(parent *etree.Element, tag, text string) *etree.Element {
	if text == "" {
		return nil
	}
	el := parent.CreateElement("ram:" + tag)
	el.SetText(text)
	return el
}

// addDate appends a ram element wrapping a dateTimeString of format 102
func addDate(parent *etree.Element, tag, prefix string, t *time.Time) {
	if t == nil {
		return
	}
	el := parent.CreateElement("ram:" + tag).CreateElement(prefix + ":DateTimeString")
	el.CreateAttr("format", "102")
	el.SetText(t.Format(DateFormat102))
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// precise keeps every significant place but at least two
func precise(d decimal.Decimal) string {
	if places := -d.Exponent(); places > 2 {
		return d.StringFixed(places)
	}
	return d.StringFixed(2)
}

// localName strips a namespace prefix from a tag
func localName(el *etree.Element) string {
	tag := el.Tag
	if idx := strings.IndexByte(tag, ':'); idx >= 0 {
		tag = tag[idx+1:]
	}
	return tag
}

// child returns the first child element with the local name, ignoring prefixes
func child(el *etree.Element, name string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if localName(c) == name {
			return c
		}
	}
	return nil
}

// children returns all child elements with the local name
func children(el *etree.Element, name string) []*etree.Element {
	if el == nil {
		return nil
	}
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if localName(c) == name {
			out = append(out, c)
		}
	}
	return out
}

// path follows a chain of local names
func path(el *etree.Element, names ...string) *etree.Element {
	for _, n := range names {
		el = child(el, n)
		if el == nil {
			return nil
		}
	}
	return el
}

// text returns the trimmed text at path, or empty
func text(el *etree.Element, names ...string) string {
	if el = path(el, names...); el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

func decimalAt(el *etree.Element, names ...string) (decimal.Decimal, bool) {
	s := text(el, names...)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := money.FromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// dateAt reads the dateTimeString below the element at path
func dateAt(el *etree.Element, names ...string) *time.Time {
	el = path(el, names...)
	if el == nil {
		return nil
	}
	s := text(el, "DateTimeString")
	for _, layout := range []string{DateFormat102, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
