package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

func formatSize(size int64) string {
	s := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if s < 1024.0 {
			return fmt.Sprintf("%.2f %s", s, unit)
		}
		s /= 1024.0
	}
	return fmt.Sprintf("%.2f PB", s)
}

// confirm prints a yes/no prompt and reads one line from in. Anything other
// than y/yes declines.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
