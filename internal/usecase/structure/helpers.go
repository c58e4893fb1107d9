package structure

import "strings"

func exportTitle(id string) string {
	return strings.NewReplacer("_", " ", "-", " ").Replace(id)
}
