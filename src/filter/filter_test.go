package filter_test

import (
	"testing"

	"github.com/calliopefm/calliope/src/filter"
	"github.com/calliopefm/calliope/src/library"
)

func testTracks() []library.SearchResult {
	return []library.SearchResult{
		{
			ID:       1,
			Artist:   "Iron Maiden",
			Album:    "Killers",
			Title:    "Wrathchild",
			Year:     1981,
			ArtistID: 1,
			AlbumID:  1,
		},
		{
			ID:       2,
			Artist:   "Iron Maiden",
			Album:    "Killers",
			Title:    "Murders in the Rue Morgue",
			Year:     1981,
			ArtistID: 1,
			AlbumID:  1,
		},
		{
			ID:          3,
			Artist:      "Iron Maiden",
			AlbumArtist: "Various Artists",
			Album:       "Metal Compilation",
			Title:       "The Trooper",
			ArtistID:    1,
			AlbumID:     2,
		},
		{
			ID:       4,
			Artist:   "AC/DC",
			Album:    "Back in Black",
			Title:    "Hells Bells",
			Year:     1980,
			ArtistID: 2,
			AlbumID:  3,
		},
	}
}

// collectTracks returns the IDs of all track rows left in the tree in
// depth-first order.
func collectTracks(item *filter.Item) []int64 {
	var ids []int64
	if item.Track != nil {
		ids = append(ids, item.Track.ID)
	}
	for _, child := range item.Children {
		ids = append(ids, collectTracks(child)...)
	}
	return ids
}

// TestTreeGrouping makes sure tracks are grouped under their effective
// album artist and album.
func TestTreeGrouping(t *testing.T) {
	tree := filter.NewTree(filter.DefaultGroupBy, testTracks())

	if len(tree.Root.Children) != 3 {
		t.Fatalf("expected 3 top level artists but got %d", len(tree.Root.Children))
	}

	var variousArtists *filter.Item
	for _, child := range tree.Root.Children {
		if child.DisplayText == "Various Artists" {
			variousArtists = child
		}
	}
	if variousArtists == nil {
		t.Fatal("the compilation was not grouped under its album artist")
	}
	if len(variousArtists.Children) != 1 ||
		variousArtists.Children[0].DisplayText != "Metal Compilation" {
		t.Errorf("wrong subtree under Various Artists: %+v", variousArtists.Children)
	}
}

// TestFilterFreeText makes sure a matching track keeps its ancestors and a
// matching container keeps its descendants.
func TestFilterFreeText(t *testing.T) {
	tree := filter.NewTree(filter.DefaultGroupBy, testTracks())

	// A track match keeps the chain above it.
	filtered := tree.Filtered(filter.New("wrathchild"))
	ids := collectTracks(filtered.Root)
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("expected only track 1 for `wrathchild` but got %v", ids)
	}
	if len(filtered.Root.Children) != 1 ||
		filtered.Root.Children[0].DisplayText != "Iron Maiden" {
		t.Errorf("the artist of the matched track was not kept")
	}

	// A container match keeps everything below it.
	filtered = tree.Filtered(filter.New("killers"))
	ids = collectTracks(filtered.Root)
	if len(ids) != 2 {
		t.Errorf("expected both Killers tracks but got %v", ids)
	}

	// Matching is case-insensitive.
	filtered = tree.Filtered(filter.New("BELLS"))
	ids = collectTracks(filtered.Root)
	if len(ids) != 1 || ids[0] != 4 {
		t.Errorf("expected only track 4 for `BELLS` but got %v", ids)
	}

	// An empty filter accepts everything.
	filtered = tree.Filtered(filter.New("  "))
	if got := collectTracks(filtered.Root); len(got) != 4 {
		t.Errorf("expected the whole tree for an empty filter but got %v", got)
	}
}

// TestFilterTags checks "tag:value" tokens against both track rows and
// container rows.
func TestFilterTags(t *testing.T) {
	tree := filter.NewTree(filter.DefaultGroupBy, testTracks())

	filtered := tree.Filtered(filter.New("album:killers"))
	ids := collectTracks(filtered.Root)
	if len(ids) != 2 {
		t.Errorf("expected both Killers tracks for `album:killers` but got %v", ids)
	}

	filtered = tree.Filtered(filter.New("albumartist:various"))
	ids = collectTracks(filtered.Root)
	if len(ids) != 1 || ids[0] != 3 {
		t.Errorf("expected only the compilation track but got %v", ids)
	}

	filtered = tree.Filtered(filter.New("title:bells"))
	ids = collectTracks(filtered.Root)
	if len(ids) != 1 || ids[0] != 4 {
		t.Errorf("expected only track 4 for `title:bells` but got %v", ids)
	}

	// Free text and tags are combined.
	filtered = tree.Filtered(filter.New("album:killers murders"))
	ids = collectTracks(filtered.Root)
	if len(ids) != 1 || ids[0] != 2 {
		t.Errorf("expected only track 2 for `album:killers murders` but got %v", ids)
	}
}

// TestFilterUnknownTag makes sure a colon token with an unknown prefix is
// matched as free text with the colons dropped.
func TestFilterUnknownTag(t *testing.T) {
	tree := filter.NewTree(filter.DefaultGroupBy, testTracks())

	// "ac" is not a track column so the token becomes the free text
	// "acdc" which matches nothing in this collection.
	filtered := tree.Filtered(filter.New("ac:dc"))
	if ids := collectTracks(filtered.Root); len(ids) != 0 {
		t.Errorf("expected no tracks for `ac:dc` but got %v", ids)
	}

	f := filter.New("ac:dc")
	if f.Empty() {
		t.Error("a filter with free text must not be empty")
	}
}

// TestFilterLoadingIndicator makes sure loading rows survive any filter.
func TestFilterLoadingIndicator(t *testing.T) {
	f := filter.New("something very specific")

	loading := &filter.Item{
		Type:           filter.ItemLoadingIndicator,
		ContainerLevel: -1,
		DisplayText:    "Loading...",
	}

	if !f.Accepts(filter.DefaultGroupBy, loading) {
		t.Error("the loading indicator row was filtered out")
	}
}
