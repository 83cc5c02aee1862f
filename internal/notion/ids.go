package notion

import "strings"

// CleanID strips every hyphen. Notion accepts ids in both forms; ecosnap
// always uses the bare 32-character form.
func CleanID(id string) string {
	return strings.ReplaceAll(id, "-", "")
}
