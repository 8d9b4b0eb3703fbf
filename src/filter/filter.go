// Package filter implements a token based filter over a hierarchical view
// of the collection. The collection tree groups tracks under up to three
// container levels (for example album artist / album) and the filter
// decides which of its rows stay visible for a search string.
//
// A row is accepted when the row itself, any of its ancestors or any of
// its descendants matches. This way searching for an album keeps the album
// container, its artist above it and all of its tracks below it.
package filter

import (
	"strings"

	"github.com/calliopefm/calliope/src/library"
)

// Filter is a parsed filter string. The zero value accepts everything.
type Filter struct {
	// tags are the "tag:value" tokens of the filter string, keyed by the
	// lowercased tag name.
	tags map[string]string

	// freeText is the rest of the filter string with the tag tokens
	// removed, matched against the display text of the items.
	freeText string
}

// New parses a filter string into a Filter. The string is split into
// whitespace separated tokens. A token of the form "tag:value" whose tag
// names a known track column becomes a tag restriction. Any other token
// joins the free-text part of the filter with its colons dropped.
func New(filterString string) *Filter {
	f := &Filter{
		tags: make(map[string]string),
	}

	var freeTokens []string

	for _, token := range strings.Fields(filterString) {
		tag, value, found := strings.Cut(token, ":")
		if found && library.IsTrackColumn(tag) {
			tag = strings.ToLower(strings.TrimSpace(tag))
			value = strings.TrimSpace(strings.ReplaceAll(value, ":", ""))
			if tag != "" && value != "" {
				f.tags[tag] = value
			}
			continue
		}

		token = strings.TrimSpace(strings.ReplaceAll(token, ":", ""))
		if token != "" {
			freeTokens = append(freeTokens, token)
		}
	}

	f.freeText = strings.Join(freeTokens, " ")

	return f
}

// Empty returns true when the filter places no restrictions at all.
func (f *Filter) Empty() bool {
	return f.freeText == "" && len(f.tags) == 0
}

// Accepts decides whether this item stays visible in a tree grouped by
// groupBy. The item is accepted when it, any of its ancestors or any of
// its descendants matches the filter. Loading-indicator rows are always
// accepted.
func (f *Filter) Accepts(groupBy GroupBySpec, item *Item) bool {
	if item == nil {
		return false
	}

	if item.Type == ItemLoadingIndicator {
		return true
	}

	if f.Empty() {
		return true
	}

	if f.itemMatches(groupBy, item) {
		return true
	}

	for parent := item.Parent; parent != nil; parent = parent.Parent {
		if f.itemMatches(groupBy, parent) {
			return true
		}
	}

	return f.childrenMatch(groupBy, item)
}

func (f *Filter) childrenMatch(groupBy GroupBySpec, item *Item) bool {
	if f.itemMatches(groupBy, item) {
		return true
	}

	for _, child := range item.Children {
		if f.childrenMatch(groupBy, child) {
			return true
		}
	}

	return false
}

// itemMatches checks this item alone. The free text must be contained in
// the display text and, when tags were given, either the track metadata or
// the container's group-by value has to match one of them.
func (f *Filter) itemMatches(groupBy GroupBySpec, item *Item) bool {
	if f.freeText != "" && !containsFold(item.DisplayText, f.freeText) {
		return false
	}

	if len(f.tags) == 0 {
		return true
	}

	if item.Track != nil && f.trackTagsMatch(item.Track) {
		return true
	}

	if item.ContainerLevel >= 0 && item.ContainerLevel <= 2 &&
		f.containerTagMatches(item, groupBy[item.ContainerLevel]) {
		return true
	}

	return false
}

// trackTagsMatch returns true when any of the filter tags matches the
// track metadata.
func (f *Filter) trackTagsMatch(track *library.SearchResult) bool {
	for tag, value := range f.tags {
		switch tag {
		case "albumartist":
			if containsFold(track.EffectiveAlbumArtist(), value) {
				return true
			}
		case "artist":
			if containsFold(track.Artist, value) {
				return true
			}
		case "album":
			if containsFold(track.Album, value) {
				return true
			}
		case "title":
			if containsFold(track.Title, value) {
				return true
			}
		}
	}

	return false
}

// containerTagMatches returns true when the tag which this container level
// groups by was requested and its value is contained in the container's
// display text.
func (f *Filter) containerTagMatches(item *Item, groupBy GroupBy) bool {
	tag := groupBy.tag()
	if tag == "" {
		return false
	}

	value, ok := f.tags[tag]
	if !ok || value == "" {
		return false
	}

	return containsFold(item.DisplayText, value)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
