package web

import (
	"time"

	"github.com/blockscope-dev/blockscope/internal/controller"
	"github.com/blockscope-dev/blockscope/internal/form"
	"github.com/blockscope-dev/blockscope/internal/scanclient"
	"github.com/blockscope-dev/blockscope/internal/view"
)

const pageTitle = "BlockScope"

// Page is the data rendered by the page template.
type Page struct {
	Title          string
	Mode           string
	Banner         string
	Loading        bool
	RefreshSeconds int
	Form           form.Form
	Results        view.Results
	Metadata       scanclient.Metadata
	ScannedAt      time.Time
}

func newPage(st controller.State, f form.Form, refresh time.Duration) Page {
	seconds := int(refresh / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return Page{
		Title:          pageTitle,
		Mode:           st.Mode.String(),
		Banner:         st.LastError,
		Loading:        st.Loading,
		RefreshSeconds: seconds,
		Form:           f,
		Results:        view.SelectResults(st.Findings, st.Loading, st.ContractName).WithExpanded(st.Expanded),
		Metadata:       st.Metadata,
		ScannedAt:      st.ScannedAt,
	}
}
