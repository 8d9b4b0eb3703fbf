package library

import (
	"database/sql"
	"fmt"
	"log"
)

// BrowseArtists implements the Browser interface for the local library by
// getting artists from the database, ordered and paginated according to the
// browse arguments.
func (lib *LocalLibrary) BrowseArtists(args BrowseArgs) ([]Artist, int) {
	var output []Artist

	orderBy := "ar.name"
	if args.OrderBy == OrderByID {
		orderBy = "ar.id"
	}
	if args.Order == OrderDesc {
		orderBy += " DESC"
	} else {
		orderBy += " ASC"
	}

	if args.PerPage == 0 {
		args.PerPage = 40
	}

	var artistsCount int

	work := func(db *sql.DB) error {
		artistsCount = getTableSize(db, "artists")

		rows, err := db.Query(fmt.Sprintf(`
			SELECT
				ar.id,
				ar.name
			FROM
				artists ar
			ORDER BY
				%s
			LIMIT
				?, ?
		`, orderBy), args.Page*args.PerPage, args.PerPage)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var res Artist
			if err := rows.Scan(&res.ID, &res.Name); err != nil {
				return err
			}
			output = append(output, res)
		}

		return rows.Err()
	}
	if err := lib.executeDBJobAndWait(work); err != nil {
		log.Printf("Query for browsing artists not successful: %s\n", err)
	}

	return output, artistsCount
}

// BrowseAlbums implements the Browser interface for the local library by
// getting albums from the database, ordered and paginated according to the
// browse arguments. Albums with tracks from more than one artist are
// presented as a "Various Artists" album.
func (lib *LocalLibrary) BrowseAlbums(args BrowseArgs) ([]Album, int) {
	var (
		output      []Album
		albumsCount int
	)

	orderBy := "al.name"
	if args.OrderBy == OrderByID {
		orderBy = "al.id"
	}
	if args.Order == OrderDesc {
		orderBy += " DESC"
	} else {
		orderBy += " ASC"
	}

	if args.PerPage == 0 {
		args.PerPage = 40
	}

	work := func(db *sql.DB) error {
		err := db.QueryRow(`
			SELECT
				COUNT(DISTINCT tr.album_id) as cnt
			FROM
				tracks tr
		`).Scan(&albumsCount)
		if err != nil {
			log.Printf("Query for getting albums count not successful: %s\n", err)
		}

		rows, err := db.Query(fmt.Sprintf(`
			SELECT
				al.id,
				al.name as album_name,
				CASE WHEN COUNT(DISTINCT tr.artist_id) = 1
				THEN ar.name
				ELSE "Various Artists"
				END AS artist_name
			FROM
				tracks tr
				LEFT JOIN
					albums al ON al.id = tr.album_id
				LEFT JOIN
					artists ar ON ar.id = tr.artist_id
			GROUP BY
				tr.album_id
			ORDER BY
				%s
			LIMIT
				?, ?
		`, orderBy), args.Page*args.PerPage, args.PerPage)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var res Album
			if err := rows.Scan(&res.ID, &res.Name, &res.Artist); err != nil {
				return err
			}
			output = append(output, res)
		}

		return rows.Err()
	}
	if err := lib.executeDBJobAndWait(work); err != nil {
		log.Printf("Query for browsing albums not successful: %s\n", err)
	}

	return output, albumsCount
}

func getTableSize(db *sql.DB, table string) int {
	var count int

	err := db.QueryRow(fmt.Sprintf(`
		SELECT
			COUNT(*) as cnt
		FROM
			%s
	`, table)).Scan(&count)
	if err != nil {
		log.Printf("Query for getting %s count not successful: %s\n", table, err)
		return 0
	}

	return count
}
