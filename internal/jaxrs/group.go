package jaxrs

import (
	"sort"
	"strings"
	"unicode"

	"github.com/mark3labs/swagger2jaxrs/internal/spec"
)

// DefaultTag files operations that declare no tag.
const DefaultTag = "default"

// TagGroup is the set of operations sharing a primary tag. The renderer emits
// one file per (template, group).
type TagGroup struct {
	Tag        string            `json:"tag" yaml:"tag"`
	ClassName  string            `json:"classname" yaml:"classname"`
	Operations []*spec.Operation `json:"operations" yaml:"operations"`
}

// GroupByTag groups operations by their first tag. Groups are sorted by tag;
// operations keep their order in s.
func GroupByTag(s *spec.Specification) []*TagGroup {
	byTag := make(map[string]*TagGroup)
	for _, op := range s.Operations() {
		tag := DefaultTag
		if len(op.Tags) > 0 && op.Tags[0] != "" {
			tag = op.Tags[0]
		}
		g, ok := byTag[tag]
		if !ok {
			g = &TagGroup{Tag: tag, ClassName: ToAPIName(tag)}
			byTag[tag] = g
		}
		g.Operations = append(g.Operations, op)
	}
	groups := make([]*TagGroup, 0, len(byTag))
	for _, g := range byTag {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Tag < groups[j].Tag })
	return groups
}

// ToAPIName turns a tag into an API class name: "store" -> "StoreApi",
// "pet-store" -> "PetStoreApi", "" -> "DefaultApi".
func ToAPIName(tag string) string {
	if tag == "" {
		return "DefaultApi"
	}
	return camelize(sanitizeName(tag)) + "Api"
}

// sanitizeName keeps letters, digits and underscores; everything else becomes
// an underscore.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// camelize upper-cases the first letter of every underscore-separated word and
// drops the underscores.
func camelize(name string) string {
	var b strings.Builder
	for _, word := range strings.Split(name, "_") {
		if word == "" {
			continue
		}
		r := []rune(word)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	if b.Len() == 0 {
		return "Default"
	}
	return b.String()
}
