package issues

import (
	"net/url"

	"github.com/vilaca/issue-archive/internal/domain"
	"github.com/vilaca/issue-archive/internal/router"
)

// Query-string parameter names carrying the view state.
const (
	ParamState     = "state"
	ParamSearch    = "q"
	ParamCollapsed = "collapsed"
)

// ViewState is the complete input of a render besides the issues.
// Values are never mutated; each transition returns a new ViewState.
type ViewState struct {
	Filter    domain.Filter
	Search    string
	Collapsed CollapsedSet
	Route     router.Route
}

// DefaultState returns the initial view state: all issues, no search,
// nothing collapsed, home view.
func DefaultState() ViewState {
	return ViewState{Filter: domain.FilterAll, Route: router.Home()}
}

// WithFilter returns the state with a new state filter.
func (v ViewState) WithFilter(f domain.Filter) ViewState {
	v.Filter = f
	return v
}

// WithSearch returns the state with a new search term, lowercased.
func (v ViewState) WithSearch(term string) ViewState {
	v.Search = NormalizeTerm(term)
	return v
}

// WithCollapsedToggled returns the state with key's collapse flipped.
func (v ViewState) WithCollapsedToggled(key string) ViewState {
	v.Collapsed = v.Collapsed.Toggle(key)
	return v
}

// WithRoute returns the state showing another view.
func (v ViewState) WithRoute(r router.Route) ViewState {
	v.Route = r
	return v
}

// Query derives the Filter input from the state.
func (v ViewState) Query(scope Scope) Query {
	return Query{State: v.Filter, Term: v.Search, Scope: scope}
}

// FromValues reads filter, search and collapsed groups from a query string.
// The route is not part of the query string and stays home.
func FromValues(values url.Values) ViewState {
	return DefaultState().
		WithFilter(domain.ParseFilter(values.Get(ParamState))).
		WithSearch(values.Get(ParamSearch)).
		withCollapsed(ParseCollapsed(values.Get(ParamCollapsed)))
}

func (v ViewState) withCollapsed(c CollapsedSet) ViewState {
	v.Collapsed = c
	return v
}

// Values encodes the state as a query string, omitting defaults.
func (v ViewState) Values() url.Values {
	values := url.Values{}
	if f := domain.ParseFilter(string(v.Filter)); f != domain.FilterAll {
		values.Set(ParamState, string(f))
	}
	if v.Search != "" {
		values.Set(ParamSearch, v.Search)
	}
	if v.Collapsed.Len() > 0 {
		values.Set(ParamCollapsed, v.Collapsed.String())
	}
	return values
}

// Href returns the link to path carrying the state's query string.
func (v ViewState) Href(path string) string {
	if encoded := v.Values().Encode(); encoded != "" {
		return path + "?" + encoded
	}
	return path
}
