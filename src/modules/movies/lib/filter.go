package movies

import (
	"movienest/src/utils"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Filter is the set of optional catalog search parameters. A zero value
// filters nothing.
type Filter struct {
	Title string
	Genre string
	Year  *int
}

// FilterFromQuery reads title, genre and year from the query string. A
// malformed year fails validation.
func FilterFromQuery(c *gin.Context) (Filter, error) {
	year, err := utils.QueryInt(c, "year")
	if err != nil {
		return Filter{}, err
	}
	return Filter{Title: c.Query("title"), Genre: c.Query("genre"), Year: year}, nil
}

// Columns names the searchable columns of a table.
type Columns struct {
	Title string
	Genre string
	Year  string
}

// CatalogColumns are shared by the movies and upcoming_movies tables.
var CatalogColumns = Columns{Title: "title", Genre: "genre", Year: "release_year"}

// SplitGenres splits a comma-joined genre string into trimmed, non-empty tags.
func SplitGenres(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NormalizeGenres canonicalises a genre string before it is stored: tags are
// trimmed, case-insensitive duplicates dropped and the rest joined with ",".
// Stored order follows the input.
func NormalizeGenres(raw string) string {
	seen := make(map[string]bool)
	var out []string
	for _, tag := range SplitGenres(raw) {
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return strings.Join(out, ",")
}

// DistinctGenres flattens stored genre strings into a sorted set of tags.
func DistinctGenres(stored []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, s := range stored {
		for _, tag := range SplitGenres(s) {
			if !seen[tag] {
				seen[tag] = true
				out = append(out, tag)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Apply composes the filter onto q. Dimensions AND together; genre tokens OR
// within their dimension.
func (f Filter) Apply(q *gorm.DB, cols Columns) *gorm.DB {
	if title := strings.TrimSpace(f.Title); title != "" {
		q = q.Where("LOWER("+cols.Title+") LIKE ? ESCAPE '\\'", "%"+utils.EscapeLike(strings.ToLower(title))+"%")
	}

	if tokens := SplitGenres(f.Genre); len(tokens) > 0 {
		parts := make([]string, 0, len(tokens))
		args := make([]any, 0, len(tokens))
		for _, tok := range tokens {
			parts = append(parts, "(',' || LOWER("+cols.Genre+") || ',') LIKE ? ESCAPE '\\'")
			args = append(args, "%,"+utils.EscapeLike(strings.ToLower(tok))+",%")
		}
		q = q.Where("("+strings.Join(parts, " OR ")+")", args...)
	}

	if f.Year != nil {
		q = q.Where(cols.Year+" = ?", *f.Year)
	}
	return q
}
