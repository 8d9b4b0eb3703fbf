package library

// MockMedia is a type used for testing the media insertion methods.
type MockMedia struct {
	artist      string
	albumArtist string
	album       string
	title       string
	track       int
	year        int
	genre       string
	compilation bool
}

// Artist satisfies the MediaFile interface and just returns the object
// attribute.
func (m *MockMedia) Artist() string {
	return m.artist
}

// AlbumArtist satisfies the MediaFile interface and just returns the object
// attribute.
func (m *MockMedia) AlbumArtist() string {
	return m.albumArtist
}

// Album satisfies the MediaFile interface and just returns the object
// attribute.
func (m *MockMedia) Album() string {
	return m.album
}

// Title satisfies the MediaFile interface and just returns the object
// attribute.
func (m *MockMedia) Title() string {
	return m.title
}

// Track satisfies the MediaFile interface and just returns the object
// attribute.
func (m *MockMedia) Track() int {
	return m.track
}

// Year satisfies the MediaFile interface and just returns the object
// attribute.
func (m *MockMedia) Year() int {
	return m.year
}

// Genre satisfies the MediaFile interface and just returns the object
// attribute.
func (m *MockMedia) Genre() string {
	return m.genre
}

// Compilation satisfies the MediaFile interface and just returns the object
// attribute.
func (m *MockMedia) Compilation() bool {
	return m.compilation
}
