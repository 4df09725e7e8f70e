/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fulmenhq/gamekit/pkg/apperr"
	"github.com/spf13/cobra"
)

const promptAttempts = 3

// stdinReader returns one buffered reader per command tree so consecutive
// prompts do not lose input buffered by an earlier one.
func stdinReader(cmd *cobra.Command) *bufio.Reader {
	if r, ok := cmd.InOrStdin().(*bufio.Reader); ok {
		return r
	}
	r := bufio.NewReader(cmd.InOrStdin())
	cmd.Root().SetIn(r)
	return r
}

// promptLine asks question on stdout and reads an answer from stdin until
// validate accepts it.
func promptLine(cmd *cobra.Command, question string, validate func(string) error) (string, error) {
	in := stdinReader(cmd)
	out := cmd.OutOrStdout()
	var lastErr error
	for i := 0; i < promptAttempts; i++ {
		_, _ = fmt.Fprintf(out, "%s ", question)
		line, err := in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if err != nil && (answer == "" || !errors.Is(err, io.EOF)) {
			return "", apperr.New(apperr.InvalidInput, "prompt", "", errors.New("no answer given"))
		}
		if lastErr = validate(answer); lastErr == nil {
			return answer, nil
		}
		_, _ = fmt.Fprintf(out, "  %v\n", lastErr)
		if err != nil {
			break
		}
	}
	return "", lastErr
}
