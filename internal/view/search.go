package view

import "github.com/talkincode/stockbook/internal/domain"

// Search holds the mode selector and both alternative inputs.
type Search struct {
	Mode      domain.SearchMode
	Query     string // free-text input
	TypeQuery string // product type dropdown
}

// SwitchSearchMode changes which input is visible. Input values are kept.
func (s State) SwitchSearchMode(mode domain.SearchMode) State {
	s.Search.Mode = mode
	return s
}

// SetSearchInputs records the current values of both inputs.
func (s State) SetSearchInputs(query, typeQuery string) State {
	s.Search.Query = query
	s.Search.TypeQuery = typeQuery
	return s
}

// ActiveQuery reads only the input belonging to the active mode.
func (s State) ActiveQuery() string {
	if s.Search.Mode == domain.SearchByType {
		return s.Search.TypeQuery
	}
	return s.Search.Query
}

// TypeInputVisible reports whether the dropdown, rather than the text box, is shown.
func (s State) TypeInputVisible() bool {
	return s.Search.Mode == domain.SearchByType
}
