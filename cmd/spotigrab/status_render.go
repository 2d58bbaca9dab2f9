package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// status is the bracketed verdict on a progress or dependency line.
type status struct {
	tag   string
	color text.Color
}

var (
	statusOK   = status{tag: "OK", color: text.FgGreen}
	statusWarn = status{tag: "WARN", color: text.FgYellow}
	statusFail = status{tag: "FAIL", color: text.FgRed}
)

const statusColumn = 12

// line renders "  label:  [TAG] message" with labels padded to one column.
func (s status) line(label, message string, colorize bool) string {
	out := fmt.Sprintf("  %-*s [%s]", statusColumn, label+":", s.tag)
	if message != "" {
		out += " " + message
	}
	if colorize {
		return s.color.Sprint(out)
	}
	return out
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
