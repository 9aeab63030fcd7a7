package components

import (
	"strings"

	"github.com/rebeliceyang/lazydb/internal/models"
)

// SearchQuery represents a parsed table filter
type SearchQuery struct {
	Pattern string // The search pattern (after removing prefixes)
	Negate  bool   // True if query starts with !
}

// IsEmpty reports whether the query filters nothing
func (q SearchQuery) IsEmpty() bool {
	return q.Pattern == ""
}

// ParseSearchQuery parses a search query string into structured form
// Examples:
//   - "alb" → {Pattern: "alb", Negate: false}
//   - "!tmp" → {Pattern: "tmp", Negate: true}
func ParseSearchQuery(query string) SearchQuery {
	q := SearchQuery{}

	query = strings.TrimSpace(query)
	if strings.HasPrefix(query, "!") {
		q.Negate = true
		query = strings.TrimSpace(query[1:])
	}

	q.Pattern = query
	return q
}

// FuzzyMatch performs fuzzy subsequence matching
// Returns whether the pattern matches and the rune positions of matched characters
// Matching is case-insensitive
func FuzzyMatch(pattern, target string) (bool, []int) {
	if pattern == "" {
		return true, []int{}
	}

	patternRunes := []rune(strings.ToLower(pattern))
	targetRunes := []rune(strings.ToLower(target))

	positions := make([]int, 0, len(patternRunes))
	patternIdx := 0

	for i := 0; i < len(targetRunes) && patternIdx < len(patternRunes); i++ {
		if targetRunes[i] == patternRunes[patternIdx] {
			positions = append(positions, i)
			patternIdx++
		}
	}

	if patternIdx == len(patternRunes) {
		return true, positions
	}
	return false, nil
}

// MatchesTable reports whether a table leaf passes the query. Root and group
// nodes always pass.
func MatchesTable(node *models.TreeNode, query SearchQuery) bool {
	if node == nil || !node.IsTableLeaf() {
		return true
	}

	if query.IsEmpty() {
		return true
	}

	matches, _ := FuzzyMatch(query.Pattern, node.Label)
	if query.Negate {
		return !matches
	}
	return matches
}

// FilterTree returns the table leaves that pass the query, in tree order
func FilterTree(root *models.TreeNode, query SearchQuery) []*models.TreeNode {
	if root == nil {
		return nil
	}

	var matches []*models.TreeNode
	for _, leaf := range root.Leaves() {
		if MatchesTable(leaf, query) {
			matches = append(matches, leaf)
		}
	}
	return matches
}
