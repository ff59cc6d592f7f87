package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/blockscope-dev/blockscope/internal/controller"
	"github.com/blockscope-dev/blockscope/internal/findings"
	"github.com/blockscope-dev/blockscope/internal/view"
)

// Options control the terminal output.
type Options struct {
	// Expand shows the code snippet of every finding that has one.
	Expand  bool
	NoColor bool
}

// Render prints the scan state: the error banner first, then the results view.
func Render(w io.Writer, st controller.State, opts Options) error {
	p := printer{w: w, noColor: opts.NoColor}

	if st.LastError != "" {
		p.colored(color.FgRed, color.Bold).printf("✖ %s\n", st.LastError)
	}
	if st.Mode != controller.ModeResults && !st.Loading {
		return p.err
	}

	results := view.SelectResults(st.Findings, st.Loading, st.ContractName)
	if opts.Expand {
		expanded := make(map[int]bool, len(st.Findings))
		for i := range st.Findings {
			expanded[i] = true
		}
		results = results.WithExpanded(expanded)
	} else {
		results = results.WithExpanded(st.Expanded)
	}

	switch results.Kind {
	case view.ResultsLoading:
		p.plain().printf("%s\n", results.Message())
	case view.ResultsEmpty:
		p.colored(color.FgGreen, color.Bold).printf("✔ %s\n", results.Message())
		p.summary(st)
	case view.ResultsList:
		p.colored(color.Bold).printf("%s\n", results.Header)
		p.summary(st)
		for _, item := range results.Items {
			p.item(item)
		}
	}
	return p.err
}

// printer keeps the first write error so rendering code stays linear.
type printer struct {
	w       io.Writer
	noColor bool
	err     error
}

type line struct {
	p *printer
	c *color.Color
}

func (p *printer) plain() line {
	return p.colored()
}

func (p *printer) colored(attrs ...color.Attribute) line {
	c := color.New(attrs...)
	if p.noColor {
		c.DisableColor()
	}
	return line{p: p, c: c}
}

func (l line) printf(format string, args ...interface{}) {
	if l.p.err != nil {
		return
	}
	_, l.p.err = l.c.Fprintf(l.p.w, format, args...)
}

func (p *printer) summary(st controller.State) {
	meta := st.Metadata
	if meta.Summary != "" {
		p.plain().printf("Summary: %s\n", meta.Summary)
	}
	if meta.OverallScore != nil {
		p.plain().printf("Score: %g\n", *meta.OverallScore)
	}
	if len(meta.SeverityBreakdown) > 0 {
		var parts []string
		for _, s := range findings.Severities {
			key := strings.ToLower(s.String())
			parts = append(parts, fmt.Sprintf("%s=%d", key, meta.SeverityBreakdown[key]))
		}
		p.plain().printf("Breakdown: %s\n", strings.Join(parts, " "))
	}
	p.plain().printf("\n")
}

func (p *printer) item(item view.Item) {
	p.colored(item.Treatment.Color, color.Bold).printf("[%s]", item.Treatment.Label)
	p.plain().printf(" %d. %s\n", item.Number(), item.Title())
	if item.Description() != "" {
		p.plain().printf("    %s\n", item.Description())
	}
	if item.ShowLine() {
		p.colored(color.Faint).printf("    %s\n", item.LineLabel())
	}
	if item.ShowCode() {
		for _, codeLine := range strings.Split(strings.TrimRight(item.Code(), "\n"), "\n") {
			p.colored(color.FgGreen).printf("    │ %s\n", codeLine)
		}
	}
	p.plain().printf("\n")
}
