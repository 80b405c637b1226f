package domain

// SearchMode selects which input the search controller reads and how the backend filters.
type SearchMode string

const (
	// SearchByName matches a free-text query against the product name.
	SearchByName SearchMode = "name"
	// SearchByType matches one of the fixed product types from the dropdown.
	SearchByType SearchMode = "type"
)

// ParseSearchMode maps a selector value to a mode; anything other than "type" is free text.
func ParseSearchMode(s string) SearchMode {
	if SearchMode(s) == SearchByType {
		return SearchByType
	}
	return SearchByName
}
