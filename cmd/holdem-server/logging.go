package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

var levelColors = map[log.Level]string{
	log.DebugLevel: "63",
	log.InfoLevel:  "86",
	log.WarnLevel:  "192",
	log.ErrorLevel: "204",
}

// newLogger builds the process logger. Colour follows the environment
// (NO_COLOR, CLICOLOR_FORCE, TERM).
func newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	logger.SetColorProfile(termenv.EnvColorProfile())

	styles := log.DefaultStyles()
	for l, color := range levelColors {
		styles.Levels[l] = lipgloss.NewStyle().
			SetString(levelLabel(l)).
			Bold(true).
			Foreground(lipgloss.Color(color))
	}
	styles.Prefix = lipgloss.NewStyle().Faint(true)
	logger.SetStyles(styles)
	return logger
}

func levelLabel(l log.Level) string {
	switch l {
	case log.DebugLevel:
		return "DEBU"
	case log.InfoLevel:
		return "INFO"
	case log.WarnLevel:
		return "WARN"
	default:
		return "ERRO"
	}
}
