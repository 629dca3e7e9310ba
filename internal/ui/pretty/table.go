package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mdcore/pkg/runner"
	"github.com/yaklabco/mdcore/pkg/structure"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minFileWidth     = 20
	minLocWidth      = 8
	minTextWidth     = 30
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
	ellipsis         = "..."
)

// column describes one table column.
type column struct {
	title string
	width int
	min   int

	// keepEnd truncates from the left, preserving the end of the value.
	keepEnd bool

	// flex columns absorb the excess when the table is wider than the terminal.
	flex bool
}

// TableFormatter formats structure listings and link errors as styled tables.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

// FormatHeadings renders the numbered heading list of one document.
func (t *TableFormatter) FormatHeadings(entries []structure.HeadingEntry) string {
	if len(entries) == 0 {
		return ""
	}

	cols := []column{
		{title: "LINE", min: minLocWidth},
		{title: "HEADING", min: minTextWidth, flex: true},
		{title: "ANCHOR", min: minTextWidth / 2, flex: true},
	}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			strconv.Itoa(entry.Line + 1),
			entry.Label,
			"#" + entry.Anchor,
		})
	}

	return t.render(cols, [][][]string{rows}, func(col int, cell string) string {
		switch col {
		case 0:
			return t.styles.Number.Render(cell)
		case 2:
			return t.styles.Anchor.Render(cell)
		default:
			return t.styles.Label.Render(cell)
		}
	})
}

// FormatOutline renders the collapsible regions of one document.
func (t *TableFormatter) FormatOutline(regions []structure.Region) string {
	if len(regions) == 0 {
		return ""
	}

	cols := []column{
		{title: "LINES", min: minLocWidth},
		{title: "KIND", min: len("section")},
		{title: "LABEL", min: minTextWidth, flex: true},
	}
	rows := make([][]string, 0, len(regions))
	for _, region := range regions {
		rows = append(rows, []string{
			fmt.Sprintf("%d-%d", region.StartLine+1, region.EndLine+1),
			region.Kind.String(),
			firstLineOf(region.Label),
		})
	}

	return t.render(cols, [][][]string{rows}, func(col int, cell string) string {
		switch col {
		case 0:
			return t.styles.Number.Render(cell)
		case 1:
			return t.styles.Kind.Render(cell)
		default:
			return t.styles.Label.Render(cell)
		}
	})
}

// FormatLinkTable renders the link errors of every file in result, one
// group per file.
func (t *TableFormatter) FormatLinkTable(result *runner.Result) string {
	if result == nil {
		return ""
	}

	var groups [][][]string
	fatal := make(map[string]bool)
	for _, file := range result.Files {
		if len(file.Links) == 0 {
			continue
		}
		rows := make([][]string, 0, len(file.Links))
		for _, e := range file.Links {
			row := []string{
				file.Path,
				fmt.Sprintf("%d:%d", e.Line+1, e.Column+1),
				e.Message,
				e.ErrorCode,
			}
			if e.Fatal {
				fatal[strings.Join(row, "\x00")] = true
			}
			rows = append(rows, row)
		}
		groups = append(groups, rows)
	}
	if len(groups) == 0 {
		return ""
	}

	cols := []column{
		{title: "FILE", min: minFileWidth, keepEnd: true, flex: true},
		{title: "LOC", min: minLocWidth},
		{title: "MESSAGE", min: minTextWidth, flex: true},
		{title: "CODE", min: len("CODE")},
	}

	return t.render(cols, groups, func(col int, cell string) string {
		if col == 0 {
			return t.styles.FilePath.Render(cell)
		}
		if col == 3 {
			return t.styles.Code.Render(cell)
		}
		return cell
	}, func(row []string) lipgloss.Style {
		if fatal[strings.Join(row, "\x00")] {
			return t.styles.Error
		}
		return lipgloss.NewStyle()
	})
}

// render lays out groups of rows under cols. Groups are divided by a light
// separator; the table is framed by heavy separators.
func (t *TableFormatter) render(
	cols []column,
	groups [][][]string,
	cellStyle func(col int, cell string) string,
	rowStyle ...func(row []string) lipgloss.Style,
) string {
	t.fitColumns(cols, groups)

	var builder strings.Builder

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = pad(c.title, c.width)
	}
	builder.WriteString(t.styles.TableHeader.Render(" " + strings.Join(header, strings.Repeat(" ", tablePadding))))
	builder.WriteString("\n")
	builder.WriteString(t.separator(cols, heavySeparator))
	builder.WriteString("\n")

	for g, rows := range groups {
		if g > 0 {
			builder.WriteString(t.separator(cols, lightSeparator))
			builder.WriteString("\n")
		}
		for _, row := range rows {
			cells := make([]string, len(cols))
			for i, c := range cols {
				value := ""
				if i < len(row) {
					value = row[i]
				}
				if c.keepEnd {
					value = truncateFilePath(value, c.width)
				} else {
					value = truncateString(value, c.width)
				}
				cells[i] = cellStyle(i, pad(value, c.width))
			}
			line := " " + strings.Join(cells, strings.Repeat(" ", tablePadding))
			if len(rowStyle) > 0 {
				line = rowStyle[0](row).Render(line)
			}
			builder.WriteString(line)
			builder.WriteString("\n")
		}
	}

	builder.WriteString(t.separator(cols, heavySeparator))
	builder.WriteString("\n")

	return builder.String()
}

// fitColumns sizes each column to its widest cell, then shrinks flex
// columns until the table fits the terminal or reaches their minimums.
func (t *TableFormatter) fitColumns(cols []column, groups [][][]string) {
	for i := range cols {
		cols[i].width = max(cols[i].min, lipgloss.Width(cols[i].title))
	}
	for _, rows := range groups {
		for _, row := range rows {
			for i := range cols {
				if i < len(row) {
					cols[i].width = max(cols[i].width, lipgloss.Width(row[i]))
				}
			}
		}
	}

	for i := len(cols) - 1; i >= 0; i-- {
		excess := totalWidth(cols) - t.termWidth
		if excess <= 0 {
			return
		}
		if cols[i].flex {
			cols[i].width = max(cols[i].min, cols[i].width-excess)
		}
	}
}

func totalWidth(cols []column) int {
	total := 1
	for _, c := range cols {
		total += c.width
	}
	return total + tablePadding*(len(cols)-1)
}

func (t *TableFormatter) separator(cols []column, char string) string {
	return t.styles.TableSeparator.Render(strings.Repeat(char, totalWidth(cols)))
}

// pad right-pads str with spaces to the display width.
func pad(str string, width int) string {
	if w := lipgloss.Width(str); w < width {
		return str + strings.Repeat(" ", width-w)
	}
	return str
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	runes := []rune(str)
	if len(runes) <= maxLen {
		return str
	}
	if maxLen <= len(ellipsis) {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	runes := []rune(path)
	if len(runes) <= maxLen {
		return path
	}
	if maxLen <= len(ellipsis) {
		return string(runes[len(runes)-maxLen:])
	}
	return ellipsis + string(runes[len(runes)-maxLen+len(ellipsis):])
}

func firstLineOf(str string) string {
	if idx := strings.IndexAny(str, "\r\n"); idx >= 0 {
		return str[:idx]
	}
	return str
}
