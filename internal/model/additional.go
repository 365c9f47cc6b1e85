package model

// AdditionalData is an ordered key/value side channel for values that have
// no first-class slot in the model. Setting an existing key replaces its
// value in place and keeps the original position.
type AdditionalData struct {
	keys   []string
	values map[string]string
}

// NewAdditionalData returns an empty bag.
func NewAdditionalData() *AdditionalData {
	return &AdditionalData{values: make(map[string]string)}
}

// Set stores value under key.
func (a *AdditionalData) Set(key, value string) {
	if a.values == nil {
		a.values = make(map[string]string)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

// Get returns the value for key and whether it was present.
func (a *AdditionalData) Get(key string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a.values[key]
	return v, ok
}

// Value returns the value for key, or "" when absent.
func (a *AdditionalData) Value(key string) string {
	v, _ := a.Get(key)
	return v
}

// Keys returns the keys in insertion order.
func (a *AdditionalData) Keys() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len returns the number of entries.
func (a *AdditionalData) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Each calls fn for every entry in insertion order.
func (a *AdditionalData) Each(fn func(key, value string)) {
	if a == nil {
		return
	}
	for _, k := range a.keys {
		fn(k, a.values[k])
	}
}
