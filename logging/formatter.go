package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var colorEnabled = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

// TextFormatter is a custom logrus formatter.
type TextFormatter struct {
	DisableTimestamp bool
}

// Format renders a single log entry.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if !f.DisableTimestamp {
		b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
		b.WriteString(" ")
	}

	// Map logrus level strings to shorter versions for consistency
	levelStr := entry.Level.String()
	switch levelStr {
	case "warning":
		levelStr = "warn"
	}
	level := strings.ToUpper(levelStr)
	b.WriteString(fmt.Sprintf("[%s]", level))

	if component, ok := entry.Data["component"]; ok {
		b.WriteString(fmt.Sprintf(" [%s]", colorize(fmt.Sprintf("%v", component))))
	}

	if entry.HasCaller() {
		fileName := filepath.Base(entry.Caller.File)
		b.WriteString(fmt.Sprintf(" [%s:%d]", fileName, entry.Caller.Line))
	}

	b.WriteString(" ")
	b.WriteString(entry.Message)

	// Append remaining fields in a stable order
	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != "component" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteString(fmt.Sprintf(" %s=%v", key, entry.Data[key]))
	}

	b.WriteString("\n")
	return []byte(b.String()), nil
}

func colorize(s string) string {
	if !colorEnabled {
		return s
	}
	return "\x1b[36m" + s + "\x1b[0m"
}
