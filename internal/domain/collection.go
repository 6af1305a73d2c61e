package domain

// Categories returns the category selector options: AllCategories first,
// then every distinct category in the order it first appears.
func Categories(quotes []Quote) []string {
	seen := make(map[string]struct{}, len(quotes))
	categories := make([]string, 0, len(quotes)+1)
	categories = append(categories, AllCategories)

	for _, q := range quotes {
		if _, ok := seen[q.Category]; ok {
			continue
		}

		seen[q.Category] = struct{}{}
		categories = append(categories, q.Category)
	}

	return categories
}

// HasCategory reports whether category is a valid selection for quotes.
func HasCategory(quotes []Quote, category string) bool {
	if category == AllCategories {
		return true
	}

	for _, q := range quotes {
		if q.Category == category {
			return true
		}
	}

	return false
}

// FilterByCategory narrows quotes to one category.
// An empty selection or AllCategories returns the whole list.
func FilterByCategory(quotes []Quote, category string) []Quote {
	if category == "" || category == AllCategories {
		return append([]Quote(nil), quotes...)
	}

	filtered := make([]Quote, 0, len(quotes))

	for _, q := range quotes {
		if q.Category == category {
			filtered = append(filtered, q)
		}
	}

	return filtered
}

// Dedupe keeps the first occurrence of every (text, category) pair.
func Dedupe(quotes []Quote) []Quote {
	seen := make(map[QuoteKey]struct{}, len(quotes))
	unique := make([]Quote, 0, len(quotes))

	for _, q := range quotes {
		key := q.Key()
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		unique = append(unique, q)
	}

	return unique
}

// MergeRemote places remote quotes ahead of local ones and removes duplicates.
func MergeRemote(remote, local []Quote) []Quote {
	merged := make([]Quote, 0, len(remote)+len(local))
	merged = append(merged, remote...)
	merged = append(merged, local...)

	return Dedupe(merged)
}
