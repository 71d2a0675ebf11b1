package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user typed "y" or "yes".
	Accepted bool
	// Cancelled is true if reading input failed.
	Cancelled bool
}

// Confirm asks a yes/no question and reads one line from reader.
// The default is "No" when the user presses Enter without input.
func Confirm(writer io.Writer, reader io.Reader, question string) PromptResult {
	fmt.Fprintf(writer, "? %s [y/N] ", question)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if scanner.Err() != nil {
			return PromptResult{Cancelled: true}
		}
		return PromptResult{Accepted: false}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{Accepted: false}
	}
}

// confirmDestructive returns true when the user passed --yes or accepted the
// prompt. When input is the process stdin and it is not a terminal, nothing
// is asked and the action is declined.
func confirmDestructive(cmd *cobra.Command, assumeYes bool, question string) bool {
	if assumeYes {
		return true
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && f == os.Stdin && !isTerminal(f) {
		return false
	}
	return Confirm(cmd.OutOrStdout(), in, question).Accepted
}

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
