package magetasks

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Out receives all task output.
var Out io.Writer = os.Stdout

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// PrintH1Header prints a top-level header with decoration.
func PrintH1Header(title string) {
	const width = 72
	rule := strings.Repeat("=", width)
	padding := max((width-len(title))/2, 0)
	fmt.Fprintf(Out, "\n%s\n%s%s\n%s\n\n", rule, strings.Repeat(" ", padding), headerStyle.Render(title), rule)
}

// PrintH2Header prints a section header.
func PrintH2Header(title string) {
	fmt.Fprintf(Out, "\n%s\n\n", headerStyle.Render("=== "+title+" ==="))
}

func PrintSuccess(msg string) { fmt.Fprintln(Out, successStyle.Render("ok   "+msg)) }
func PrintWarning(msg string) { fmt.Fprintln(Out, warningStyle.Render("warn "+msg)) }
func PrintError(msg string)   { fmt.Fprintln(Out, errorStyle.Render("fail "+msg)) }
func PrintInfo(msg string)    { fmt.Fprintln(Out, infoStyle.Render("     "+msg)) }
