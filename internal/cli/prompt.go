package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// confirm prompts for a yes/no answer and reports whether the user accepted.
// The prompt defaults to "No" on an empty answer, and declines immediately
// in non-interactive environments so scripted runs never hang.
func confirm(writer io.Writer, reader io.Reader, message string) bool {
	if stdin, ok := reader.(*os.File); ok && !isTerminal(stdin) {
		return false
	}

	fmt.Fprintf(writer, "%s [y/N] ", message)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
