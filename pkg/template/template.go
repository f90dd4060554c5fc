// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package template substitutes {{key}} placeholders in a string.
package template

import "strings"

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Render returns tmpl with every {{key}} replaced by vars[key]. Keys missing
// from vars are kept as written. The key ends at the first "}}" after the
// opening braces; an opening "{{" without a closing "}}" and everything
// after it are copied unchanged. Substituted values are not scanned again.
func Render(tmpl string, vars map[string]string) string {
	var b strings.Builder
	b.Grow(len(tmpl))

	for {
		i := strings.Index(tmpl, openDelim)
		if i < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		b.WriteString(tmpl[:i])

		rest := tmpl[i+len(openDelim):]
		j := strings.Index(rest, closeDelim)
		if j < 0 {
			b.WriteString(tmpl[i:])
			return b.String()
		}

		key := rest[:j]
		if v, ok := vars[key]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(openDelim)
			b.WriteString(key)
			b.WriteString(closeDelim)
		}
		tmpl = rest[j+len(closeDelim):]
	}
}
