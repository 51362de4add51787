// Package tags reconciles tag ids with tag names. Hotels store names while
// editors work with catalog ids, so every conversion reports what it could
// not resolve instead of dropping it.
package tags

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// maxSuggestDistance bounds how far a "did you mean" suggestion may be
const maxSuggestDistance = 2

var editCost = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// Tag is a catalog entry as served by GET /tags
type Tag struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Reconciliation is the outcome of mapping inputs of type I to values of
// type R. Resolved keeps input order.
type Reconciliation[R, I comparable] struct {
	Resolved  []R
	Unmatched []I
	// Suggestions maps an unmatched name to the closest catalog name
	Suggestions map[string]string
}

// Complete reports whether every input was resolved
func (r Reconciliation[R, I]) Complete() bool {
	return len(r.Unmatched) == 0
}

// Catalog indexes a tag list for both directions
type Catalog struct {
	tags   []Tag
	byID   map[uint]Tag
	byName map[string]Tag
}

func NewCatalog(list []Tag) *Catalog {
	c := &Catalog{
		tags:   list,
		byID:   make(map[uint]Tag, len(list)),
		byName: make(map[string]Tag, len(list)),
	}
	for _, t := range list {
		c.byID[t.ID] = t
		c.byName[normalize(t.Name)] = t
	}
	return c
}

func (c *Catalog) Tags() []Tag {
	return c.tags
}

func (c *Catalog) Lookup(id uint) (Tag, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// IDsToNames is the write path: editor selection to stored names.
// Duplicate ids resolve once.
func (c *Catalog) IDsToNames(ids []uint) Reconciliation[string, uint] {
	out := Reconciliation[string, uint]{Resolved: make([]string, 0, len(ids))}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if t, ok := c.byID[id]; ok {
			out.Resolved = append(out.Resolved, t.Name)
		} else {
			out.Unmatched = append(out.Unmatched, id)
		}
	}
	return out
}

// NamesToIDs is the read path: stored names to editor preselection.
// Matching ignores surrounding whitespace and letter case.
func (c *Catalog) NamesToIDs(names []string) Reconciliation[uint, string] {
	out := Reconciliation[uint, string]{Resolved: make([]uint, 0, len(names))}
	seen := make(map[uint]bool, len(names))
	for _, name := range names {
		t, ok := c.byName[normalize(name)]
		if !ok {
			out.Unmatched = append(out.Unmatched, name)
			if s, ok := c.Suggest(name); ok {
				if out.Suggestions == nil {
					out.Suggestions = make(map[string]string)
				}
				out.Suggestions[name] = s
			}
			continue
		}
		if !seen[t.ID] {
			seen[t.ID] = true
			out.Resolved = append(out.Resolved, t.ID)
		}
	}
	return out
}

// Suggest returns the catalog name closest to name, if any is within
// maxSuggestDistance edits. Ties go to the earlier catalog entry.
func (c *Catalog) Suggest(name string) (string, bool) {
	target := []rune(normalize(name))
	if len(target) == 0 {
		return "", false
	}
	best, bestDist := "", maxSuggestDistance+1
	for _, t := range c.tags {
		d := levenshtein.DistanceForStrings(target, []rune(normalize(t.Name)), editCost)
		if d < bestDist {
			best, bestDist = t.Name, d
		}
	}
	return best, best != ""
}

// IDsToNames resolves ids against catalog
func IDsToNames(catalog []Tag, ids []uint) Reconciliation[string, uint] {
	return NewCatalog(catalog).IDsToNames(ids)
}

// NamesToIDs resolves names against catalog
func NamesToIDs(catalog []Tag, names []string) Reconciliation[uint, string] {
	return NewCatalog(catalog).NamesToIDs(names)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
