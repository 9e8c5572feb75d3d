package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/relfetch/pkg/release"
)

// stdout receives all command output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// richOutput enables markdown rendering when stdout is a terminal.
var richOutput = isatty.IsTerminal(os.Stdout.Fd())

const (
	notesWidth    = 100
	markdownStyle = "dark"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	styleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	styleDim       = lipgloss.NewStyle().Foreground(colorDim)
	styleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
	styleKey       = lipgloss.NewStyle().Foreground(colorGray).Width(12)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleTag = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconBullet  = "•"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a local file path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+styleValue.Render(value))
}

// printPlain prints s unstyled, for output meant to be piped.
func printPlain(s string) {
	fmt.Fprintln(stdout, s)
}

// =============================================================================
// Domain Output
// =============================================================================

// printRelease prints a release summary with its assets.
func printRelease(rel *release.Release) {
	title := styleTag.Render(rel.Tag)
	if rel.Name != "" && rel.Name != rel.Tag {
		title += " " + styleDim.Render(rel.Name)
	}
	if rel.Prerelease {
		title += " " + styleWarning.Render("prerelease")
	}
	fmt.Fprintln(stdout, title)
	if !rel.PublishedAt.IsZero() {
		printKeyValue("published", rel.PublishedAt.Format("2006-01-02 15:04 MST"))
	}
	if len(rel.Assets) == 0 {
		printDetail("no assets")
		return
	}
	for _, a := range rel.Assets {
		fmt.Fprintln(stdout, "  "+styleDim.Render(iconBullet)+" "+styleHighlight.Render(a.Name)+" "+styleDim.Render(formatSize(a.Size)))
	}
}

// printNotes prints release notes under a heading. Notes are rendered as
// markdown on a terminal and printed verbatim otherwise.
func printNotes(rel *release.Release) {
	fmt.Fprintln(stdout, styleTitle.Render("Changes in "+rel.Tag))
	body := strings.TrimSpace(rel.Body)
	if body == "" {
		printDetail("no release notes")
		return
	}
	if richOutput {
		if out, err := renderMarkdown(body, notesWidth); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	fmt.Fprintln(stdout, body)
}

// renderMarkdown renders md with the dark terminal style, wrapping at width.
// Callers only reach it when stdout is a terminal.
func renderMarkdown(md string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(markdownStyle)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// printLink prints a labeled URL.
func printLink(label, u string) {
	fmt.Fprintln(stdout, styleKey.Render(label)+" "+styleLink.Render(u))
}

func formatSize(n int64) string {
	const unit = 1024
	switch {
	case n <= 0:
		return ""
	case n < unit:
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
