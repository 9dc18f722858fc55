package format

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"sort"
)

// sortLabelsDescending orders items by their label in reverse collation order.
func sortLabelsDescending[T any](items []T, label func(T) string) {
	c := collate.New(language.English)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(label(items[i]), label(items[j])) > 0
	})
}

func sortLabelsAscending(labels []string) {
	c := collate.New(language.English)
	sort.SliceStable(labels, func(i, j int) bool {
		return c.CompareString(labels[i], labels[j]) < 0
	})
}
