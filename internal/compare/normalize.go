package compare

import "strings"

// Normalize collapses whitespace runs to single spaces and drops blank lines,
// shrinking the token volume sent to the model. Word order and content are
// untouched. Normalize(Normalize(s)) == Normalize(s) for all s.
func Normalize(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		kept = append(kept, strings.Join(fields, " "))
	}
	return strings.Join(kept, "\n")
}
