package ldapfetch

import (
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// Filter composes RFC 4515 search filter strings.
type Filter interface {
	String() string
}

type rawFilter string

func (f rawFilter) String() string { return string(f) }

type compositeFilter struct {
	op    string
	parts []Filter
}

func (f compositeFilter) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(f.op)
	for _, part := range f.parts {
		b.WriteString(part.String())
	}
	b.WriteString(")")
	return b.String()
}

func And(filters ...Filter) Filter {
	return compositeFilter{op: "&", parts: filters}
}

func Or(filters ...Filter) Filter {
	return compositeFilter{op: "|", parts: filters}
}

func Not(filter Filter) Filter {
	return compositeFilter{op: "!", parts: []Filter{filter}}
}

// Eq matches attr equal to value. The value is escaped.
func Eq(attr, value string) Filter {
	return rawFilter("(" + attr + "=" + ldap.EscapeFilter(value) + ")")
}

// Present matches entries that carry attr at all.
func Present(attr string) Filter {
	return rawFilter("(" + attr + "=*)")
}

// Ge matches attr greater than or equal to value.
func Ge(attr string, value int64) Filter {
	return rawFilter(fmt.Sprintf("(%s>=%d)", attr, value))
}
