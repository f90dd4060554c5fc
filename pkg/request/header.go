// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package request

// Header maps header names to values. Names are case-sensitive as received.
// Adding a name that is already present joins the values with ", ".
// Iteration follows the order in which names were first received.
type Header struct {
	names  []string
	values map[string]string
}

// add inserts value under name, joining it onto an existing value.
func (h *Header) add(name, value string) {
	if h.values == nil {
		h.values = make(map[string]string)
	}
	if prev, ok := h.values[name]; ok {
		h.values[name] = prev + ", " + value
		return
	}
	h.names = append(h.names, name)
	h.values[name] = value
}

// Get returns the value stored under name.
func (h Header) Get(name string) (string, bool) {
	v, ok := h.values[name]
	return v, ok
}

// Has reports whether name is present.
func (h Header) Has(name string) bool {
	_, ok := h.values[name]
	return ok
}

// Len returns the number of distinct names.
func (h Header) Len() int {
	return len(h.names)
}

// Names returns the header names in first-received order.
func (h Header) Names() []string {
	names := make([]string, len(h.names))
	copy(names, h.names)
	return names
}

// Each calls fn for every header in first-received order.
func (h Header) Each(fn func(name, value string)) {
	for _, name := range h.names {
		fn(name, h.values[name])
	}
}
