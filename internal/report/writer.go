package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rodaine/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Format represents an output format type.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Writer handles writing reports.
type Writer struct {
	w      io.Writer
	format Format
	quiet  bool

	printer *message.Printer
	heading lipgloss.Style
	label   lipgloss.Style
	dim     lipgloss.Style
}

// New creates a Writer. A quiet writer prints nothing for real runs and only
// the stats for dry runs.
func New(w io.Writer, format Format, quiet bool) *Writer {
	r := lipgloss.NewRenderer(w)
	return &Writer{
		w:       w,
		format:  format,
		quiet:   quiet,
		printer: message.NewPrinter(language.English),
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		label:   r.NewStyle().Foreground(lipgloss.Color("245")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Write outputs rep in the configured format.
func (wr *Writer) Write(rep Report) error {
	if wr.quiet && !rep.DryRun {
		return nil
	}

	switch wr.format {
	case FormatJSON:
		enc := json.NewEncoder(wr.w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatYAML:
		enc := yaml.NewEncoder(wr.w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	default:
		return wr.writeText(rep)
	}
}

func (wr *Writer) writeText(rep Report) error {
	var b strings.Builder

	if rep.Backup != "" && !wr.quiet {
		fmt.Fprintf(&b, "Created backup: %s\n", rep.Backup)
	}

	action := "Removed"
	if rep.DryRun {
		action = "Would remove"
	}

	b.WriteString("\n" + wr.heading.Render("Stats:") + "\n")
	stats := []struct {
		label string
		value int
	}{
		{"Total lines", rep.TotalLines},
		{"Parsed commands", rep.ParsedCommands},
		{"Unique commands", rep.UniqueCommands},
		{"Successful", rep.Successful},
		{"Failed", rep.Failed},
		{"Duplicates", rep.Duplicates},
		{action, rep.Removed},
	}
	for _, s := range stats {
		b.WriteString("  " + wr.label.Render(s.label+":") + " " + wr.printer.Sprintf("%d", s.value) + "\n")
	}

	if !wr.quiet {
		wr.writeRemovals(&b, rep, action)
	}

	_, err := io.WriteString(wr.w, b.String())
	return err
}

// writeRemovals renders the reason table and samples into b.
func (wr *Writer) writeRemovals(b *strings.Builder, rep Report, action string) {
	if rep.Removed == 0 {
		b.WriteString("No commands to remove\n")
		return
	}

	fmt.Fprintf(b, "\n%s\n", wr.heading.Render(wr.printer.Sprintf("%s %d lines:", action, rep.Removed)))
	wr.reasonTable(b, rep.Reasons).Print()

	if len(rep.Samples) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s\n", wr.heading.Render("Samples:"))
	for _, s := range rep.Samples {
		fmt.Fprintf(b, "  %6d  %s  %s\n", s.Line, s.Command, wr.dim.Render(s.Reason))
	}
	if rep.MoreSamples > 0 {
		fmt.Fprintf(b, "  %s\n", wr.dim.Render(wr.printer.Sprintf("...and %d more", rep.MoreSamples)))
	}
}

func (wr *Writer) reasonTable(w io.Writer, reasons []ReasonCount) table.Table {
	tbl := table.New("  Reason", "Lines").
		WithWriter(w).
		WithPadding(2).
		WithHeaderFormatter(func(format string, vals ...interface{}) string {
			return wr.label.Render(fmt.Sprintf(format, vals...))
		})

	for _, rc := range reasons {
		tbl.AddRow("  "+rc.Reason, wr.printer.Sprintf("%d", rc.Lines))
	}
	return tbl
}
