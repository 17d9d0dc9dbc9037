package places

import (
	"fmt"
	"strings"
)

// TypeUnknown is reported for elements that match no catalog category.
const TypeUnknown = "unknown"

// Category is one kind of family-friendly place the map can show.
type Category struct {
	Tag   string
	Label string
	// Key and Value are the OSM tag pair that identifies the category.
	Key   string
	Value string
	// Kinds are the OSM element kinds queried for this category.
	Kinds []string
}

// catalog order is also the classification precedence.
var catalog = []Category{
	{Tag: "playground", Label: "Playgrounds", Key: "leisure", Value: "playground", Kinds: []string{"node", "way"}},
	{Tag: "park", Label: "Parks", Key: "leisure", Value: "park", Kinds: []string{"node", "way"}},
	{Tag: "museum", Label: "Museums", Key: "tourism", Value: "museum", Kinds: []string{"node", "way"}},
	{Tag: "gallery", Label: "Galleries", Key: "tourism", Value: "gallery", Kinds: []string{"node", "way"}},
	{Tag: "science_centre", Label: "Science Centers", Key: "amenity", Value: "science_centre", Kinds: []string{"node", "way"}},
	{Tag: "planetarium", Label: "Planetariums", Key: "amenity", Value: "planetarium", Kinds: []string{"node", "way"}},
}

var catalogIndex = func() map[string]int {
	idx := make(map[string]int, len(catalog))
	for i, c := range catalog {
		idx[c.Tag] = i
	}
	return idx
}()

// Categories returns a copy of the catalog in display order.
func Categories() []Category {
	out := make([]Category, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a category by token, ignoring case and surrounding space.
func Lookup(token string) (Category, bool) {
	i, ok := catalogIndex[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return Category{}, false
	}
	return catalog[i], true
}

// Fragments returns the element filters for one category, e.g.
// node["leisure"="park"] and way["leisure"="park"].
func (c Category) Fragments() []string {
	out := make([]string, 0, len(c.Kinds))
	for _, kind := range c.Kinds {
		out = append(out, fmt.Sprintf(`%s[%q=%q]`, kind, c.Key, c.Value))
	}
	return out
}

// Resolve turns requested category tokens into element filters. Unknown
// tokens are ignored. Recognised categories are emitted once each, in
// catalog order, so the result only depends on which categories were asked
// for. When nothing is recognised every category is used.
func Resolve(tokens []string) []string {
	selected := make([]bool, len(catalog))
	matched := false
	for _, token := range tokens {
		i, ok := catalogIndex[strings.ToLower(strings.TrimSpace(token))]
		if !ok {
			continue
		}
		selected[i] = true
		matched = true
	}

	fragments := make([]string, 0, 2*len(catalog))
	for i, c := range catalog {
		if matched && !selected[i] {
			continue
		}
		fragments = append(fragments, c.Fragments()...)
	}
	return fragments
}

// Classify picks the category of an element from its tags. The first
// catalog entry whose key/value pair matches wins.
func Classify(tags map[string]string) string {
	for _, c := range catalog {
		if tags[c.Key] == c.Value {
			return c.Tag
		}
	}
	return TypeUnknown
}
