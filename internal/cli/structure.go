package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdcore/internal/configloader"
	"github.com/yaklabco/mdcore/internal/ui/pretty"
	"github.com/yaklabco/mdcore/pkg/langdetect"
	"github.com/yaklabco/mdcore/pkg/mdast"
	"github.com/yaklabco/mdcore/pkg/reporter"
	"github.com/yaklabco/mdcore/pkg/structure"
	"github.com/yaklabco/mdcore/pkg/textbuf"
)

// Structure listing formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatText  = "text"
)

type structureFlags struct {
	shared       sharedFlags
	format       string
	tooltipLimit int
	detect       bool
}

// headingJSON is the JSON form of one heading. Lines are 1-based.
type headingJSON struct {
	Level  int    `json:"level"`
	Line   int    `json:"line"`
	Number string `json:"number,omitempty"`
	Text   string `json:"text"`
	Label  string `json:"label"`
	Anchor string `json:"anchor"`
}

// regionJSON is the JSON form of one outline region. Lines are 1-based,
// offsets are byte offsets.
type regionJSON struct {
	Kind      string `json:"kind"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Label     string `json:"label"`
	Language  string `json:"language,omitempty"`
	Tooltip   string `json:"tooltip"`
}

func newHeadingsCommand() *cobra.Command {
	flags := &structureFlags{}

	cmd := &cobra.Command{
		Use:   "headings [file]",
		Short: "List the numbered headings of a Markdown document",
		Long: `List every heading with its dotted number, table-of-contents label and
anchor. Reads stdin when no file (or "-") is given.

Examples:
  mdcore headings README.md
  mdcore headings --format text README.md   # Print the table of contents
  cat README.md | mdcore headings --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadings(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.shared.flavor, "flavor", "gfm", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringVar(&flags.format, "format", formatTable, "output format: table, text, json")

	return cmd
}

func newOutlineCommand() *cobra.Command {
	flags := &structureFlags{}

	cmd := &cobra.Command{
		Use:   "outline [file]",
		Short: "List the collapsible regions of a Markdown document",
		Long: `List the regions an editor can fold: fenced code blocks, multi-line HTML
blocks and heading sections. Reads stdin when no file (or "-") is given.

Examples:
  mdcore outline README.md
  mdcore outline --format json --tooltip-limit 200 README.md
  mdcore outline --detect-language README.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOutline(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.shared.flavor, "flavor", "gfm", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringVar(&flags.format, "format", formatTable, "output format: table, json")
	cmd.Flags().IntVar(&flags.tooltipLimit, "tooltip-limit", 0, "maximum tooltip length in characters")
	cmd.Flags().BoolVar(&flags.detect, "detect-language", false, "guess the language of code blocks without one")

	return cmd
}

// overrides returns the configuration overrides of the structure flags.
func (f *structureFlags) overrides(cmd *cobra.Command) *configloader.Overrides {
	o := f.shared.overrides(cmd)
	if cmd.Flags().Changed("tooltip-limit") {
		o.TooltipLimit = &f.tooltipLimit
	}
	return o
}

// parseDocument reads and parses the document named by args through a
// session cache.
func parseDocument(cmd *cobra.Command, args []string, flags *structureFlags) (*mdast.Document, int, error) {
	cfg, err := loadConfig(cmd, flags.overrides(cmd))
	if err != nil {
		return nil, 0, err
	}

	fsys := afero.NewOsFs()
	path, content, err := readDocument(cmd, fsys, args)
	if err != nil {
		return nil, 0, err
	}

	sess := newSession(cfg, fsys, nil)
	defer sess.Close()

	buf := textbuf.New(path, content)
	defer buf.Close()

	doc, err := sess.Parse(commandContext(cmd), buf.Current())
	if err != nil {
		return nil, 0, fmt.Errorf("parse: %w", err)
	}

	return doc, cfg.Outline.TooltipLimit, nil
}

func runHeadings(cmd *cobra.Command, args []string, flags *structureFlags) error {
	if err := checkFormat(flags.format, formatTable, formatText, formatJSON); err != nil {
		return err
	}

	doc, _, err := parseDocument(cmd, args, flags)
	if err != nil {
		return err
	}

	entries := structure.Headings(doc)
	out := cmd.OutOrStdout()

	switch flags.format {
	case formatJSON:
		items := make([]headingJSON, 0, len(entries))
		for _, e := range entries {
			items = append(items, headingJSON{
				Level:  e.Level,
				Line:   e.Line + 1,
				Number: e.Number,
				Text:   e.Text,
				Label:  e.Label,
				Anchor: e.Anchor,
			})
		}
		return writeJSON(out, items)
	case formatText:
		for _, e := range entries {
			if _, err := fmt.Fprintln(out, e.Label); err != nil {
				return fmt.Errorf("write headings: %w", err)
			}
		}
		return nil
	default:
		_, err := io.WriteString(out, tableFormatter(cmd).FormatHeadings(entries))
		return err
	}
}

func runOutline(cmd *cobra.Command, args []string, flags *structureFlags) error {
	if err := checkFormat(flags.format, formatTable, formatJSON); err != nil {
		return err
	}

	doc, limit, err := parseDocument(cmd, args, flags)
	if err != nil {
		return err
	}

	opts := []structure.OutlineOption{structure.WithTooltipLimit(limit)}
	if flags.detect {
		opts = append(opts, structure.WithLanguageDetector(langdetect.Guess))
	}

	regions := structure.Outline(doc, opts...)
	out := cmd.OutOrStdout()

	if flags.format == formatJSON {
		items := make([]regionJSON, 0, len(regions))
		for _, r := range regions {
			items = append(items, regionJSON{
				Kind:      r.Kind.String(),
				StartLine: r.StartLine + 1,
				EndLine:   r.EndLine + 1,
				Start:     r.Span.Start,
				End:       r.Span.End(),
				Label:     r.Label,
				Language:  r.Language,
				Tooltip:   r.Tooltip,
			})
		}
		return writeJSON(out, items)
	}

	_, err = io.WriteString(out, tableFormatter(cmd).FormatOutline(regions))
	return err
}

func tableFormatter(cmd *cobra.Command) *pretty.TableFormatter {
	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))
	return pretty.NewTableFormatter(styles, reporter.TerminalWidth(out))
}

func checkFormat(format string, valid ...string) error {
	for _, v := range valid {
		if format == v {
			return nil
		}
	}
	return usageError(fmt.Errorf("unknown format %q; valid formats: %v", format, valid))
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}
