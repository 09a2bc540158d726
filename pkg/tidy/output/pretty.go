package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/tidy/pkg/tidy/executor"
	"github.com/jamesainslie/tidy/pkg/tidy/manifest"
	"github.com/jamesainslie/tidy/pkg/tidy/plan"
	"github.com/jamesainslie/tidy/pkg/tidy/types"
)

// PrettyFormatter renders artifacts for terminal review.
type PrettyFormatter struct {
	header  lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
	muted   lipgloss.Style
	keyword lipgloss.Style
}

// NewPrettyFormatter returns a PrettyFormatter with the default styles.
func NewPrettyFormatter() *PrettyFormatter {
	return &PrettyFormatter{
		header:  lipgloss.NewStyle().Bold(true),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		keyword: lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// FormatManifest renders a manifest summary and its entries.
func (f *PrettyFormatter) FormatManifest(w io.Writer, m *manifest.Manifest) error {
	fmt.Fprintln(w, f.header.Render(fmt.Sprintf("Manifest %s", shorten(m.ID))))
	fmt.Fprintf(w, "  root: %s\n", m.Root)
	fmt.Fprintf(w, "  items: %d (%s)\n", m.Summary.TotalItems, humanize.IBytes(uint64(m.Summary.TotalSize)))
	fmt.Fprintf(w, "  confidence: %s high, %s medium, %s low\n",
		f.ok.Render(fmt.Sprint(m.Summary.HighConfidence)),
		f.warn.Render(fmt.Sprint(m.Summary.MediumConfidence)),
		f.bad.Render(fmt.Sprint(m.Summary.LowConfidence)))

	for _, e := range m.Entries {
		marker := f.keyword.Render(string(e.Kind))
		fmt.Fprintf(w, "  %-40s %s %s %s\n",
			e.RelativePath, marker,
			f.confidence(e.Confidence),
			f.muted.Render(string(e.RecommendedHandling)))
	}
	return nil
}

// FormatPlan renders the plan's actions and safety verdict.
func (f *PrettyFormatter) FormatPlan(w io.Writer, p *plan.Plan) error {
	fmt.Fprintln(w, f.header.Render(fmt.Sprintf("Plan %s", shorten(p.ID))))
	fmt.Fprintf(w, "  destination: %s\n", p.DestinationRoot)
	fmt.Fprintf(w, "  actions: %d moves, %d renames, %d move+renames, %d skips\n",
		p.Summary.Moves, p.Summary.Renames, p.Summary.MoveRenames, p.Summary.Skips)

	for _, a := range p.Actions {
		if a.Type == plan.ActionSkip {
			fmt.Fprintf(w, "  %s %s %s\n",
				f.muted.Render("skip"), a.RelativeFrom, f.muted.Render("("+a.Reason+")"))
			continue
		}
		approved := " "
		if a.Approved {
			approved = f.ok.Render("✓")
		}
		collision := ""
		if a.HasCollision {
			collision = " " + f.warn.Render("[collision resolved]")
		}
		fmt.Fprintf(w, "  %s %-8s %s -> %s %s%s\n",
			approved, a.Type, a.RelativeFrom, a.RelativeTo, f.confidence(a.Confidence), collision)
	}

	if p.Safety.Passed {
		fmt.Fprintln(w, "  safety: "+f.ok.Render("passed"))
	} else {
		fmt.Fprintln(w, "  safety: "+f.bad.Render("FAILED"))
		for _, e := range p.Safety.Errors {
			fmt.Fprintf(w, "    %s\n", f.bad.Render(e))
		}
	}
	for _, warning := range p.Safety.Warnings {
		fmt.Fprintf(w, "    %s\n", f.warn.Render(warning))
	}
	return nil
}

// FormatReport renders execution outcomes.
func (f *PrettyFormatter) FormatReport(w io.Writer, r *executor.Report) error {
	title := fmt.Sprintf("Execution %s", shorten(r.ID))
	if r.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintln(w, f.header.Render(title))
	fmt.Fprintf(w, "  %s completed, %s failed, %s skipped\n",
		f.ok.Render(fmt.Sprint(r.Summary.Completed)),
		f.bad.Render(fmt.Sprint(r.Summary.Failed)),
		f.muted.Render(fmt.Sprint(r.Summary.Skipped)))

	for _, res := range r.Results {
		switch res.Status {
		case executor.StatusFailed:
			fmt.Fprintf(w, "  %s %s: %s\n", f.bad.Render("failed"), shorten(res.ActionID), res.Error)
		case executor.StatusCompleted:
			if res.ActualDestination != "" {
				fmt.Fprintf(w, "  %s %s -> %s\n",
					f.ok.Render("moved"), shorten(res.ActionID),
					f.warn.Render(res.ActualDestination))
			}
		}
	}
	return nil
}

// confidence renders a score colored by its band.
func (f *PrettyFormatter) confidence(c float64) string {
	text := fmt.Sprintf("%.2f", c)
	switch types.BandOf(c) {
	case types.BandHigh:
		return f.ok.Render(text)
	case types.BandMedium:
		return f.warn.Render(text)
	default:
		return f.bad.Render(text)
	}
}

// shorten trims ids for display.
func shorten(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
