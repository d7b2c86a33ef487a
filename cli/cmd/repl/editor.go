package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/yfelo/log"
	"github.com/ardnew/yfelo/pkg"
	"github.com/ardnew/yfelo/tmpl"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop of
// multi-line templates. It writes the draft to a temp file, opens the user's
// editor, and parses the result. On a syntax error the user is prompted to
// re-edit; declining ends the session. A template that parses is rendered
// against the session scope.
type editCommand struct {
	session   Session
	ctxFunc   func() context.Context
	logger    log.Logger
	draft     string // template text opened in the editor
	output    string // rendered output of an accepted template
	cancelled bool   // the editor was left empty
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. An emptied file cancels the edit
// and leaves draft unchanged. If the user declines to re-edit, it returns
// [ErrEditDeclined].
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	// Create a single temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), pkg.Name+"-repl-*.yf")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	content := c.draft

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		data, err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath)
		if err != nil {
			return err
		}

		if strings.TrimSpace(data) == "" {
			c.cancelled = true

			return nil
		}

		c.draft = data

		nodes, parseErr := c.session.Engine.Parse(ctx, data)
		c.logger.TraceContext(
			ctx,
			"editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			out, err := c.session.Engine.Render(ctx, nodes, c.session.Scope)
			if err != nil {
				return err
			}

			c.output = out

			return nil
		}

		fmt.Fprintln(c.stderr, "\n"+describeSyntaxError(parseErr, data))
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		content = data
	}
}

// runEditor launches the user's editor on the given file path and returns
// the edited file content.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// describeSyntaxError formats a parse error of src with the line and column
// it occurred at and the offending source line.
func describeSyntaxError(err error, src string) string {
	var se *tmpl.SyntaxError
	if !errors.As(err, &se) {
		return "parse error: " + err.Error()
	}

	line, column := se.Position(src)

	msg := fmt.Sprintf("parse error at %d:%d: %s", line, column, se.Message)
	if se.Hint != "" {
		msg += " (" + se.Hint + ")"
	}

	return msg + "\n" + strings.TrimRight(se.Snippet(src), "\n")
}
