package domain

import "strings"

// State is the lifecycle state of an issue.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// Filter selects issues by state. The zero value behaves like FilterAll.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterOpen   Filter = "open"
	FilterClosed Filter = "closed"
)

// Filters lists the filter values in display order.
var Filters = []Filter{FilterAll, FilterOpen, FilterClosed}

// ParseFilter maps user input to a Filter. Unknown values map to FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterOpen:
		return FilterOpen
	case FilterClosed:
		return FilterClosed
	default:
		return FilterAll
	}
}

// Matches reports whether an issue in state s passes the filter.
func (f Filter) Matches(s State) bool {
	switch f {
	case FilterOpen, FilterClosed:
		return State(f) == s
	default:
		return true
	}
}

// Label returns the button caption for the filter.
func (f Filter) Label() string {
	switch f {
	case FilterOpen:
		return "Open"
	case FilterClosed:
		return "Closed"
	default:
		return "All"
	}
}
