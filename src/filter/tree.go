package filter

import (
	"fmt"

	"github.com/calliopefm/calliope/src/library"
)

// ItemType says what kind of row an item represents in the collection
// tree.
type ItemType int

const (
	// ItemContainer is a grouping row such as an artist or an album.
	ItemContainer ItemType = iota

	// ItemTrack is a leaf row for a single track.
	ItemTrack

	// ItemLoadingIndicator is a placeholder row shown while a subtree is
	// being loaded. It is never filtered out.
	ItemLoadingIndicator
)

// GroupBy says which track property a container level groups the
// collection by.
type GroupBy int

const (
	// GroupByNone disables this container level.
	GroupByNone GroupBy = iota

	// GroupByAlbumArtist groups by the effective album artist.
	GroupByAlbumArtist

	// GroupByArtist groups by the track artist.
	GroupByArtist

	// GroupByAlbum groups by the album name.
	GroupByAlbum

	// GroupByYearAlbum groups by "year - album".
	GroupByYearAlbum

	// GroupByYear groups by the release year.
	GroupByYear

	// GroupByGenre groups by the genre tag.
	GroupByGenre
)

// tag returns the name of the filterable tag a group-by level exposes.
// Levels which do not group by a filterable tag return the empty string.
func (g GroupBy) tag() string {
	switch g {
	case GroupByAlbumArtist:
		return "albumartist"
	case GroupByArtist:
		return "artist"
	case GroupByAlbum, GroupByYearAlbum:
		return "album"
	case GroupByGenre:
		return "genre"
	default:
		return ""
	}
}

// key returns the display text for the container a track falls into on
// this group-by level.
func (g GroupBy) key(track library.SearchResult) string {
	switch g {
	case GroupByAlbumArtist:
		return track.EffectiveAlbumArtist()
	case GroupByArtist:
		return track.Artist
	case GroupByAlbum:
		return track.Album
	case GroupByYearAlbum:
		return fmt.Sprintf("%d - %s", track.Year, track.Album)
	case GroupByYear:
		return fmt.Sprintf("%d", track.Year)
	case GroupByGenre:
		return track.Genre
	default:
		return ""
	}
}

// GroupBySpec describes the three container levels of a collection tree.
// Unused levels are GroupByNone.
type GroupBySpec [3]GroupBy

// DefaultGroupBy is the album artist / album grouping the collection
// browser uses unless told otherwise.
var DefaultGroupBy = GroupBySpec{GroupByAlbumArtist, GroupByAlbum, GroupByNone}

// Item is a row of the collection tree.
type Item struct {
	Type ItemType `json:"-"`

	// ContainerLevel is the depth of a container row (0 to 2). It is -1
	// for non-container rows.
	ContainerLevel int `json:"-"`

	DisplayText string `json:"display"`

	// Track is set for ItemTrack rows only.
	Track *library.SearchResult `json:"track,omitempty"`

	Parent   *Item   `json:"-"`
	Children []*Item `json:"children,omitempty"`
}

// addChild appends a child item and wires its parent pointer.
func (it *Item) addChild(child *Item) *Item {
	child.Parent = it
	it.Children = append(it.Children, child)
	return child
}

// Tree is a hierarchical view over collection tracks.
type Tree struct {
	GroupBy GroupBySpec

	// Root is an invisible container holding the top level rows.
	Root *Item
}

// NewTree groups the tracks under the container levels described by
// groupBy. Tracks appear in the order given, containers in the order of
// their first track.
func NewTree(groupBy GroupBySpec, tracks []library.SearchResult) *Tree {
	tree := &Tree{
		GroupBy: groupBy,
		Root: &Item{
			Type:           ItemContainer,
			ContainerLevel: -1,
		},
	}

	for i := range tracks {
		track := tracks[i]
		parent := tree.Root

		for level := 0; level < len(groupBy); level++ {
			if groupBy[level] == GroupByNone {
				break
			}

			key := groupBy[level].key(track)
			if key == "" {
				key = library.UnknownLabel
			}

			var container *Item
			for _, child := range parent.Children {
				if child.Type == ItemContainer && child.DisplayText == key {
					container = child
					break
				}
			}
			if container == nil {
				container = parent.addChild(&Item{
					Type:           ItemContainer,
					ContainerLevel: level,
					DisplayText:    key,
				})
			}

			parent = container
		}

		parent.addChild(&Item{
			Type:           ItemTrack,
			ContainerLevel: -1,
			DisplayText:    track.Title,
			Track:          &track,
		})
	}

	return tree
}

// Filtered returns a copy of the tree with only the rows the filter
// accepts. The original tree is left untouched.
func (t *Tree) Filtered(f *Filter) *Tree {
	out := &Tree{
		GroupBy: t.GroupBy,
		Root: &Item{
			Type:           ItemContainer,
			ContainerLevel: -1,
		},
	}

	if f == nil || f.Empty() {
		out.Root.Children = t.Root.Children
		return out
	}

	t.filterInto(f, t.Root, out.Root)

	return out
}

func (t *Tree) filterInto(f *Filter, from *Item, to *Item) {
	for _, child := range from.Children {
		if !f.Accepts(t.GroupBy, child) {
			continue
		}

		kept := to.addChild(&Item{
			Type:           child.Type,
			ContainerLevel: child.ContainerLevel,
			DisplayText:    child.DisplayText,
			Track:          child.Track,
		})

		t.filterInto(f, child, kept)
	}
}
