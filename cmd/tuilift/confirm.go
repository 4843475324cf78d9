package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errCancelled = errors.New("cancelled")

// confirmDelete asks before a destructive call unless yes is set. Without a
// terminal on stdin it refuses rather than guess.
func confirmDelete(cmd *cobra.Command, name string, yes bool) error {
	if yes {
		return nil
	}
	if f, ok := cmd.InOrStdin().(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return fmt.Errorf("refusing to delete %q without --yes: stdin is not a terminal", name)
	}
	ok, err := promptYesNo(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Delete %q? [y/N] ", name))
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}
	return nil
}

func promptYesNo(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
