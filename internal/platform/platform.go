// Package platform holds the static table of posting limits per social
// network.
package platform

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Limits are the posting limits of one platform. The zero value means no
// limits are known and serializes as an empty object.
type Limits struct {
	CharLimit    int `json:"char_limit,omitempty" yaml:"char_limit,omitempty" example:"280"`
	HashtagLimit int `json:"hashtag_limit,omitempty" yaml:"hashtag_limit,omitempty" example:"30"`
}

// Known reports whether any limit is set.
func (l Limits) Known() bool {
	return l != Limits{}
}

// Platform is a named table entry.
type Platform struct {
	Name   string `json:"name" example:"twitter"`
	Limits Limits `json:"limits"`
}

var table = map[string]Limits{
	"linkedin":  {CharLimit: 1300, HashtagLimit: 30},
	"instagram": {CharLimit: 2200, HashtagLimit: 30},
	"twitter":   {CharLimit: 280, HashtagLimit: 30},
	"facebook":  {CharLimit: 63206, HashtagLimit: 30},
}

// Lookup returns the limits for a platform name, matched case-insensitively
// after trimming surrounding whitespace. Unknown names yield zero Limits and
// false.
func Lookup(name string) (Limits, bool) {
	key := cases.Fold().String(strings.TrimSpace(name))
	l, ok := table[key]
	return l, ok
}

// All returns every known platform sorted by name.
func All() []Platform {
	out := make([]Platform, 0, len(table))
	for name, l := range table {
		out = append(out, Platform{Name: name, Limits: l})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
