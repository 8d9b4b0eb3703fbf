package library

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FilterMode selects which subset of the collection a query operates on.
type FilterMode int

const (
	// FilterModeAll places no additional restriction on the query.
	FilterModeAll FilterMode = iota

	// FilterModeDuplicates restricts the query to tracks which appear
	// more than once in the collection with the same artist, album and
	// title.
	FilterModeDuplicates

	// FilterModeUntagged restricts the query to tracks with a missing
	// artist, album or title tag.
	FilterModeUntagged
)

// FilterOptions is a value object with the typed filters which a collection
// query is built from.
type FilterOptions struct {
	// MaxAge limits the query to tracks added to the collection in the
	// last MaxAge seconds. The zero value of -1 disables the limit.
	MaxAge int64

	Mode FilterMode
}

// NewFilterOptions returns FilterOptions which place no restrictions on
// the query.
func NewFilterOptions() FilterOptions {
	return FilterOptions{MaxAge: -1, Mode: FilterModeAll}
}

// CollectionQuery assembles a parameterized SELECT over the tracks table,
// joined to the albums and artists tables. WHERE clauses are accumulated
// with the Add* methods and are ANDed together on execution.
//
// It is a direct SQL builder and not an ORM-like abstraction on purpose.
// Every method maps to a well known clause so that the resulting query is
// predictable and uses the table indexes.
type CollectionQuery struct {
	columnSpec         string
	whereClauses       []string
	boundValues        []interface{}
	orderBy            string
	limit              int
	includeUnavailable bool
	duplicatesOnly     bool
}

// NewCollectionQuery returns a query restricted according to the filter
// options.
func NewCollectionQuery(opts FilterOptions) *CollectionQuery {
	cq := &CollectionQuery{
		columnSpec: `t.id, t.name, t.album_id, al.name, t.artist_id, at.name,
			t.album_artist, t.number, t.year, t.genre, t.rating`,
		limit: -1,
	}

	if opts.MaxAge != -1 {
		cutoff := time.Now().Unix() - opts.MaxAge
		cq.whereClauses = append(cq.whereClauses, "t.created_at > ?")
		cq.boundValues = append(cq.boundValues, cutoff)
	}

	cq.duplicatesOnly = opts.Mode == FilterModeDuplicates

	if opts.Mode == FilterModeUntagged {
		cq.whereClauses = append(
			cq.whereClauses,
			fmt.Sprintf(
				"(at.name = '%s' OR al.name = '%s' OR t.name = '%s')",
				UnknownLabel, UnknownLabel, UnknownLabel,
			),
		)
	}

	return cq
}

var sqlOperatorRegexp = regexp.MustCompile(`^(=|<[>=]?|>=?|!=)`)

// RemoveSQLOperator strips a leading comparison operator from a search
// token and returns the operator along with the remaining token. When the
// token has no operator "=" is returned. The inequality operator is
// normalized to the SQL spelling.
func RemoveSQLOperator(token string) (op string, remainder string) {
	op = "="
	if match := sqlOperatorRegexp.FindString(token); match != "" {
		op = match
	}
	remainder = sqlOperatorRegexp.ReplaceAllString(token, "")

	if op == "!=" {
		op = "<>"
	}

	return op, remainder
}

// AddWhere adds a WHERE clause comparing a logical track column against a
// value. Unknown columns are ignored so that a bad search token cannot end
// up in the SQL.
func (cq *CollectionQuery) AddWhere(column string, value interface{}, op string) {
	sqlColumn, ok := trackColumns[strings.ToLower(column)]
	if !ok {
		return
	}

	if strings.EqualFold(op, "IN") {
		values, ok := value.([]string)
		if !ok {
			return
		}

		placeholders := make([]string, 0, len(values))
		for _, single := range values {
			placeholders = append(placeholders, "?")
			cq.boundValues = append(cq.boundValues, single)
		}

		cq.whereClauses = append(
			cq.whereClauses,
			fmt.Sprintf("%s IN (%s)", sqlColumn, strings.Join(placeholders, ",")),
		)
		return
	}

	// Integers are inlined. SQLite seems to get confused when integers
	// are passed to bound parameters in comparisons.
	if intVal, ok := value.(int); ok {
		cq.whereClauses = append(
			cq.whereClauses,
			fmt.Sprintf("%s %s %d", sqlColumn, op, intVal),
		)
		return
	}
	if intVal, ok := value.(int64); ok {
		cq.whereClauses = append(
			cq.whereClauses,
			fmt.Sprintf("%s %s %d", sqlColumn, op, intVal),
		)
		return
	}

	cq.whereClauses = append(cq.whereClauses, fmt.Sprintf("%s %s ?", sqlColumn, op))
	cq.boundValues = append(cq.boundValues, value)
}

// AddWhereArtist matches tracks from an artist. Tracks which have an album
// artist set are considered part of this artist's collection only when the
// album artist matches.
func (cq *CollectionQuery) AddWhereArtist(value interface{}) {
	cq.whereClauses = append(
		cq.whereClauses,
		"((at.name = ? AND t.album_artist = '') OR t.album_artist = ?)",
	)
	cq.boundValues = append(cq.boundValues, value, value)
}

// ratingTolerance compensates for float precision errors. The database
// cannot be queried for an exact float so a small tolerance is used to make
// sure the searched value is definitely included.
const ratingTolerance = 0.001

// AddWhereRating adds a WHERE clause against the track rating. The value is
// parsed with ParseRating.
func (cq *CollectionQuery) AddWhereRating(value string, op string) {
	rating := ParseRating(value)

	switch op {
	case "<":
		cq.AddWhere("rating", rating-ratingTolerance, "<")
	case ">":
		cq.AddWhere("rating", rating+ratingTolerance, ">")
	case "<=":
		cq.AddWhere("rating", rating+ratingTolerance, "<=")
	case ">=":
		cq.AddWhere("rating", rating-ratingTolerance, ">=")
	case "<>":
		cq.whereClauses = append(cq.whereClauses, "(t.rating < ? OR t.rating > ?)")
		cq.boundValues = append(
			cq.boundValues,
			rating-ratingTolerance,
			rating+ratingTolerance,
		)
	default: // op == "="
		cq.AddWhere("rating", rating+ratingTolerance, "<")
		cq.AddWhere("rating", rating-ratingTolerance, ">")
	}
}

// AddCompilationRequirement restricts the query to tracks which are (or are
// not) part of a compilation.
func (cq *CollectionQuery) AddCompilationRequirement(compilation bool) {
	compValue := 0
	if compilation {
		compValue = 1
	}

	// The unary + prevents SQLite from using the compilation index for
	// this clause.
	cq.whereClauses = append(
		cq.whereClauses,
		fmt.Sprintf("+t.compilation = %d", compValue),
	)
}

// addRawWhere adds an already formed WHERE clause with its bound values.
// Only for use within the package where the clause is a trusted constant.
func (cq *CollectionQuery) addRawWhere(clause string, values ...interface{}) {
	cq.whereClauses = append(cq.whereClauses, clause)
	cq.boundValues = append(cq.boundValues, values...)
}

// SetColumnSpec changes the selected columns. The default column spec
// returns everything needed for scanning a SearchResult.
func (cq *CollectionQuery) SetColumnSpec(spec string) {
	cq.columnSpec = spec
}

// SetOrderBy sets the ORDER BY part of the query.
func (cq *CollectionQuery) SetOrderBy(orderBy string) {
	cq.orderBy = orderBy
}

// SetLimit sets the LIMIT part of the query. Negative values remove the
// limit.
func (cq *CollectionQuery) SetLimit(limit int) {
	cq.limit = limit
}

// SetIncludeUnavailable makes the query include tracks whose files have
// gone missing from the file system.
func (cq *CollectionQuery) SetIncludeUnavailable(include bool) {
	cq.includeUnavailable = include
}

// innerQuery returns the JOIN used for restricting the query to duplicated
// tracks only.
func (cq *CollectionQuery) innerQuery() string {
	if !cq.duplicatesOnly {
		return ""
	}

	return ` INNER JOIN (
			SELECT
				artist_id AS dup_artist,
				album_id AS dup_album,
				name AS dup_title
			FROM tracks
			GROUP BY artist_id, album_id, name
			HAVING COUNT(*) > 1
		) dup ON (
			t.artist_id = dup.dup_artist
			AND t.album_id = dup.dup_album
			AND t.name = dup.dup_title
		)`
}

// SQL returns the assembled query along with the values for its bound
// parameters in order.
func (cq *CollectionQuery) SQL() (string, []interface{}) {
	query := fmt.Sprintf(`SELECT %s FROM tracks t
		LEFT JOIN albums al ON al.id = t.album_id
		LEFT JOIN artists at ON at.id = t.artist_id%s`,
		cq.columnSpec,
		cq.innerQuery(),
	)

	whereClauses := cq.whereClauses
	if !cq.includeUnavailable {
		whereClauses = append(whereClauses, "t.unavailable = 0")
	}

	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	if cq.orderBy != "" {
		query += " ORDER BY " + cq.orderBy
	}

	if cq.limit >= 0 {
		query += fmt.Sprintf(" LIMIT %d", cq.limit)
	}

	return query, cq.boundValues
}

// Query prepares the assembled statement, binds all accumulated values and
// executes it.
func (cq *CollectionQuery) Query(ctx context.Context, db *sql.DB) (*sql.Rows, error) {
	query, values := cq.SQL()

	smt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("preparing collection query: %w", err)
	}
	defer smt.Close()

	rows, err := smt.QueryContext(ctx, values...)
	if err != nil {
		return nil, fmt.Errorf("executing collection query: %w", err)
	}

	return rows, nil
}

// ParseRating converts a rating search value to the 0-1 scale stored in the
// database. Values between 1 and 5 are treated as a star rating and an
// optional trailing "star"/"stars" word is ignored. Values between 0 and 1
// are used as-is. Anything unparsable or out of scale is clamped.
func ParseRating(value string) float64 {
	value = strings.TrimSpace(value)

	lower := strings.ToLower(value)
	for _, suffix := range []string{"stars", "star"} {
		if strings.HasSuffix(lower, suffix) {
			value = strings.TrimSpace(value[:len(value)-len(suffix)])
			break
		}
	}

	rating, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}

	if rating > 1 {
		rating = rating / 5
	}

	if rating < 0 {
		return 0
	}
	if rating > 1 {
		return 1
	}

	return rating
}
