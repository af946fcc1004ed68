package bom

// GroupBy partitions items into classes of the equivalence relation equal.
// Groups appear in the order their first member was seen and members keep
// input order. Each item is compared with the first member of every open
// group, so equal must be an equivalence relation for the result to be
// independent of which member represents a group.
func GroupBy[T any](items []T, equal func(a, b T) bool) [][]T {
	var groups [][]T
	for _, item := range items {
		placed := false
		for i := range groups {
			if equal(groups[i][0], item) {
				groups[i] = append(groups[i], item)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []T{item})
		}
	}
	return groups
}
