package model

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Conversion key names understood by the mappers
const (
	KeyInterface    = "INTERFACE"
	KeyPersonalData = "PERSONALDATA"
	KeyZBDetails    = "ZBDETAILS"
)

// PersonalDataMode selects the personnel-internal contact tags
const PersonalDataMode = "PERSONAL"

// UpperKey upper-cases a key or tag name. A Caser is stateful, so each
// call gets its own.
func UpperKey(s string) string {
	return cases.Upper(language.Und).String(s)
}

// ConversionKeys carries out-of-band directives passed with a document.
// Keys are stored upper-cased.
type ConversionKeys map[string]string

// NewConversionKeys builds keys from a plain map, upper-casing every name.
func NewConversionKeys(m map[string]string) ConversionKeys {
	keys := make(ConversionKeys, len(m))
	for k, v := range m {
		keys[UpperKey(k)] = v
	}
	return keys
}

// Get returns the value for name and whether it was set.
func (k ConversionKeys) Get(name string) (string, bool) {
	if k == nil {
		return "", false
	}
	v, ok := k[UpperKey(name)]
	return v, ok
}

// Set stores value under the upper-cased name.
func (k ConversionKeys) Set(name, value string) {
	k[UpperKey(name)] = value
}

// Interface returns the INTERFACE override, if any.
func (k ConversionKeys) Interface() (string, bool) {
	return k.Get(KeyInterface)
}

// PersonalData reports whether contact data comes from personnel tags.
func (k ConversionKeys) PersonalData() bool {
	v, _ := k.Get(KeyPersonalData)
	return strings.EqualFold(v, PersonalDataMode)
}

// ZBDetails returns the payment-term detail fragment, if any.
func (k ConversionKeys) ZBDetails() string {
	v, _ := k.Get(KeyZBDetails)
	return v
}
