package display

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorMode selects when the command line output is coloured.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode converts a config value into a ColorMode. An empty value is
// ColorAuto.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("unknown color mode %q", s)
}

const (
	defaultWidth = 80
	detailIndent = 4
)

// Printer writes styled command line output.
type Printer struct {
	out      io.Writer
	width    int
	renderer *lipgloss.Renderer

	title   lipgloss.Style
	name    lipgloss.Style
	detail  lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

// NewPrinter returns a Printer writing to w. In ColorAuto mode colours are
// used only when w is a terminal and NO_COLOR is not set.
func NewPrinter(w io.Writer, mode ColorMode) *Printer {
	r := lipgloss.NewRenderer(w)

	tty, width := terminal(w)
	if !useColor(mode, tty) {
		r.SetColorProfile(termenv.Ascii)
	} else if mode == ColorAlways && !tty {
		r.SetColorProfile(termenv.ANSI256)
	}
	if width <= 0 {
		width = defaultWidth
	}

	return &Printer{
		out:      w,
		width:    width,
		renderer: r,
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"}),
		name: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#51bd73", Dark: "#51bd73"}),
		detail: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#A49FA5", Dark: "#777777"}),
		success: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#51bd73", Dark: "#51bd73"}),
		failure: r.NewStyle().
			Foreground(lipgloss.Color("#de613e")),
		muted: r.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#888888"}),
	}
}

func useColor(mode ColorMode, tty bool) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return tty && !termenv.EnvNoColor()
}

// terminal reports whether w is a terminal and its width.
func terminal(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok {
		return false, 0
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return false, 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return true, 0
	}
	return true, width
}

// Title prints a heading line.
func (p *Printer) Title(s string) {
	fmt.Fprintln(p.out, p.title.Render(s))
}

// Item prints name followed by detail, wrapped to the terminal width and
// indented under the name. detail may be empty.
func (p *Printer) Item(name, detail string) {
	fmt.Fprintln(p.out, p.name.Render(name))
	if detail == "" {
		return
	}
	fmt.Fprintln(p.out, p.detail.Render(p.Indent(detail)))
}

// Indent wraps s to the printer width and indents every line.
func (p *Printer) Indent(s string) string {
	wrapped := wordwrap.String(strings.TrimRight(s, "\n"), p.width-detailIndent)
	return indent.String(wrapped, detailIndent)
}

// Success prints a confirmation line.
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.out, p.success.Render(fmt.Sprintf(format, args...)))
}

// Failure prints an error line.
func (p *Printer) Failure(format string, args ...any) {
	fmt.Fprintln(p.out, p.failure.Render(fmt.Sprintf(format, args...)))
}

// Muted prints a line of secondary information.
func (p *Printer) Muted(format string, args ...any) {
	fmt.Fprintln(p.out, p.muted.Render(fmt.Sprintf(format, args...)))
}

// KeyValue prints "key: value" with the key aligned to width.
func (p *Printer) KeyValue(key, value string, width int) {
	padding := strings.Repeat(" ", max(width-len(key), 0)+1)
	fmt.Fprintf(p.out, "%s%s%s\n", p.muted.Render(key+":"), padding, value)
}

// Section prints the heading of an environment section in its arrow colour.
func (p *Printer) Section(section Section) {
	fmt.Fprintln(p.out, p.palette(section, RoleArrow).Bold(true).Render(string(section)))
}

// Package prints an activated package of section with the section's package
// colours. version may be empty.
func (p *Printer) Package(section Section, name, version string) {
	line := p.palette(section, RoleArrow).Render("->") + " " + p.palette(section, RolePackageVariable).Render(name)
	if version != "" {
		line += " " + p.palette(section, RolePackageValue).Render(version)
	}
	fmt.Fprintln(p.out, line)
}

// palette returns a style in the palette colour of role, or the detail style
// when section has no such role.
func (p *Printer) palette(section Section, role Role) lipgloss.Style {
	c, ok := Lookup(section, role)
	if !ok {
		return p.detail
	}
	return p.renderer.NewStyle().Foreground(lipgloss.Color(strconv.Itoa(c.ANSI)))
}
