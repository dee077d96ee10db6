package cmd

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

// promptSecret returns value when set, otherwise asks for it. A terminal
// stdin is read without echo; anything else is read a line at a time.
func promptSecret(cmd *cobra.Command, label, value string) (string, error) {
	if value != "" {
		return value, nil
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", label)

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
		}
		return string(b), nil
	}

	line, err := lineReader(cmd).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// lineReader keeps one buffered reader per input so consecutive prompts do
// not lose buffered lines.
func lineReader(cmd *cobra.Command) *bufio.Reader {
	in := cmd.InOrStdin()
	if r, ok := readers[in]; ok {
		return r
	}
	r := bufio.NewReader(in)
	readers[in] = r
	return r
}

var readers = map[io.Reader]*bufio.Reader{}
