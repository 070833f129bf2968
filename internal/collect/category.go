package collect

import (
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// categoryBlacklist holds generic leaf names that are uninformative as a
// category display name. Compared lowercase.
var categoryBlacklist = map[string]struct{}{
	"despensa":               {},
	"cóctel y snacks":        {},
	"pastas frescas":         {},
	"aceitunas y encurtidos": {},
}

var slugTitleCaser = cases.Title(language.Spanish)

// categoryCandidates accumulates the naming candidates seen for one category
// id across the corpus. Resolution is deferred until all documents have been
// processed.
type categoryCandidates struct {
	DetailName     *string
	BreadcrumbName *string
	Slug           *string
}

func blacklisted(name string) bool {
	_, ok := categoryBlacklist[strings.ToLower(name)]
	return ok
}

// slugDerivedName turns the last segment of a category slug into a display
// name: hyphens become spaces and each word is title-cased.
func slugDerivedName(slug string) string {
	segments := strings.Split(slug, "/")
	last := strings.TrimSpace(segments[len(segments)-1])
	if last == "" {
		return ""
	}
	return slugTitleCaser.String(strings.ReplaceAll(last, "-", " "))
}

// resolve picks the final display name for a category. The second return is
// false when no candidate exists at all, in which case the category id is
// omitted from output. When every candidate is blacklisted the best available
// one is used anyway, with a diagnostic.
func (c *categoryCandidates) resolve(id int64, logger *slog.Logger) (string, bool) {
	var ordered []string
	if c.DetailName != nil && strings.TrimSpace(*c.DetailName) != "" {
		ordered = append(ordered, strings.TrimSpace(*c.DetailName))
	}
	if c.BreadcrumbName != nil && strings.TrimSpace(*c.BreadcrumbName) != "" {
		ordered = append(ordered, strings.TrimSpace(*c.BreadcrumbName))
	}
	if c.Slug != nil {
		if derived := slugDerivedName(*c.Slug); derived != "" {
			ordered = append(ordered, derived)
		}
	}
	if len(ordered) == 0 {
		return "", false
	}
	for _, name := range ordered {
		if !blacklisted(name) {
			return name, true
		}
	}
	logger.Warn("All category name candidates are blacklisted, using best available",
		"category_id", id,
		"name", ordered[0])
	return ordered[0], true
}
