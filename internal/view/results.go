package view

import (
	"fmt"

	"github.com/blockscope-dev/blockscope/internal/findings"
)

const (
	LoadingText = "Scanning with Semgrep…"
	EmptyText   = "No Vulnerabilities Found"
)

// ResultsKind is the state the results view is in.
type ResultsKind int

const (
	ResultsLoading ResultsKind = iota
	ResultsEmpty
	ResultsList
)

func (k ResultsKind) String() string {
	switch k {
	case ResultsLoading:
		return "loading"
	case ResultsEmpty:
		return "empty"
	case ResultsList:
		return "list"
	default:
		return "unknown"
	}
}

// Results is what the results view displays.
type Results struct {
	Kind   ResultsKind
	Header string
	Items  []Item
}

// SelectResults picks the results state. Loading wins over everything else, then an
// empty list shows the "no findings" state; otherwise every finding becomes an Item in
// the given order.
func SelectResults(list []findings.Finding, loading bool, contractName string) Results {
	switch {
	case loading:
		return Results{Kind: ResultsLoading}
	case len(list) == 0:
		return Results{Kind: ResultsEmpty}
	}

	items := make([]Item, 0, len(list))
	for i, f := range list {
		items = append(items, NewItem(i, f, false))
	}
	return Results{
		Kind:   ResultsList,
		Header: fmt.Sprintf("Security Findings – %s", contractName),
		Items:  items,
	}
}

// WithExpanded applies the disclosure state of each item, keyed by finding index.
func (r Results) WithExpanded(expanded map[int]bool) Results {
	if len(r.Items) == 0 {
		return r
	}
	items := make([]Item, len(r.Items))
	for i, item := range r.Items {
		item.Expanded = expanded[item.Index]
		items[i] = item
	}
	r.Items = items
	return r
}

// Message is the text of the loading and empty states.
func (r Results) Message() string {
	switch r.Kind {
	case ResultsLoading:
		return LoadingText
	case ResultsEmpty:
		return EmptyText
	default:
		return ""
	}
}

func (r Results) IsLoading() bool { return r.Kind == ResultsLoading }

func (r Results) IsEmpty() bool { return r.Kind == ResultsEmpty }

func (r Results) IsList() bool { return r.Kind == ResultsList }
