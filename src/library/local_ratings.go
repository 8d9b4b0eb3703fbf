package library

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// SetTrackRating stores the rating for particular track into the database.
// The rating is given on the 0-5 star scale and is stored normalized to the
// [0, 1] range.
func (lib *LocalLibrary) SetTrackRating(
	ctx context.Context,
	mediaID int64,
	rating uint8,
) error {
	if rating > 5 {
		return errWrongRating
	}

	work := func(db *sql.DB) error {
		_, err := db.ExecContext(
			ctx,
			`
				UPDATE tracks
				SET rating = @rating
				WHERE id = @trackID
			`,
			sql.Named("rating", float64(rating)/5),
			sql.Named("trackID", mediaID),
		)

		return err
	}

	if err := lib.executeDBJobAndWait(work); err != nil {
		log.Printf("Error executing set track rating: %s", err)
		return fmt.Errorf("failed SQL query: %w", err)
	}

	return nil
}
