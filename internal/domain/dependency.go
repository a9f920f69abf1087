package domain

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// DefaultDependencyPatterns are the trigger phrases recognized in task
// bodies when the configuration does not override them.
var DefaultDependencyPatterns = []string{"depends on", "blocked by", "requires"}

// idListPattern matches one or more #<digits> tokens separated by commas
// or the word "and", e.g. "#12, #34 and #56".
const idListPattern = `((?:#\d+)(?:\s*(?:,|and)\s*#\d+)*)`

var idToken = regexp.MustCompile(`#(\d+)`)

// ExtractDependencyIDs scans a task body for references to other tasks
// that must be complete first. A reference is a trigger phrase followed by
// one or more #<digits> tokens. Matching is case-insensitive and purely
// textual; referenced ids are not validated against the tracker.
// Returns the sorted, de-duplicated ids, or nil when nothing matches.
func ExtractDependencyIDs(body string, patterns []string) []int {
	if body == "" {
		return nil
	}
	if len(patterns) == 0 {
		patterns = DefaultDependencyPatterns
	}

	alts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		alts = append(alts, regexp.QuoteMeta(p))
	}
	if len(alts) == 0 {
		return nil
	}

	re, err := regexp.Compile(`(?i)(?:` + strings.Join(alts, "|") + `)\s*:?\s*` + idListPattern)
	if err != nil {
		return nil
	}

	var ids []int
	for _, m := range re.FindAllStringSubmatch(body, -1) {
		for _, tok := range idToken.FindAllStringSubmatch(m[1], -1) {
			id, convErr := strconv.Atoi(tok[1])
			if convErr != nil {
				continue
			}
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	slices.Sort(ids)
	return ids
}
