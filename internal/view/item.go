package view

import (
	"fmt"

	"github.com/blockscope-dev/blockscope/internal/findings"
)

// Item is the view of one finding together with its disclosure state.
type Item struct {
	Index     int
	Finding   findings.Finding
	Treatment findings.Treatment
	Expanded  bool
}

// NewItem builds the view of the finding at index.
func NewItem(index int, f findings.Finding, expanded bool) Item {
	return Item{
		Index:     index,
		Finding:   f,
		Treatment: findings.DisplayTreatmentFor(f.Severity),
		Expanded:  expanded,
	}
}

// Toggle returns the item with its disclosure state flipped.
func (i Item) Toggle() Item {
	i.Expanded = !i.Expanded
	return i
}

// Number is the 1-based position of the item in the list.
func (i Item) Number() int { return i.Index + 1 }

func (i Item) Title() string { return i.Finding.Title }

func (i Item) Description() string { return i.Finding.Description }

// ShowLine reports whether the source line is displayed.
func (i Item) ShowLine() bool { return i.Finding.HasLine() }

// LineLabel renders the source line, e.g. "Line 12".
func (i Item) LineLabel() string {
	if !i.ShowLine() {
		return ""
	}
	return fmt.Sprintf("Line %d", i.Finding.Line())
}

// ShowCode reports whether the code snippet is displayed: only for expanded items carrying one.
func (i Item) ShowCode() bool { return i.Expanded && i.Finding.HasCode() }

// Code returns the snippet when it is displayed.
func (i Item) Code() string {
	if !i.ShowCode() {
		return ""
	}
	return i.Finding.Snippet()
}
