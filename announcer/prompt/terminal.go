package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

var ErrEmptyInput = errors.New("no input available")

type readResult struct {
	line string
	err  error
}

// Terminal asks the operator for secrets and confirmations. Secrets are
// read without echo when the input is a terminal.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	reader *bufio.Reader
	fd     int
	tty    bool
	// state of the terminal before any prompt, restored when a hidden read
	// is abandoned so an interrupted run never leaves echo disabled
	state *term.State

	// a read abandoned by a cancelled context is picked up by the next prompt
	pending chan readResult
}

// NewTerminal reads from in, hiding secrets when in is a terminal.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	fd := int(in.Fd())
	t := &Terminal{
		out:    out,
		reader: bufio.NewReader(in),
		fd:     fd,
		tty:    term.IsTerminal(fd),
	}
	if t.tty {
		if state, err := term.GetState(fd); err == nil {
			t.state = state
		}
	}

	return t
}

// Restore puts the terminal back into the state it had when the Terminal
// was created. It is a no-op when the input is not a terminal.
func (t *Terminal) Restore() error {
	if t.state == nil {
		return nil
	}

	return term.Restore(t.fd, t.state)
}

// NewLineReader reads plain lines from in, e.g. piped answers.
func NewLineReader(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		out:    out,
		reader: bufio.NewReader(in),
		fd:     -1,
	}
}

func (t *Terminal) CollectSecret(ctx context.Context, prompt string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "%s: ", prompt)
	secret, err := t.read(ctx, t.tty)
	if t.tty {
		fmt.Fprintln(t.out)
	}
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(secret), nil
}

func (t *Terminal) ConfirmYesNo(ctx context.Context, prompt string, def bool) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}

	for {
		fmt.Fprintf(t.out, "%s %s: ", prompt, hint)
		answer, err := t.read(ctx, false)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprintln(t.out, "Please answer yes or no.")
		}
	}
}

func (t *Terminal) read(ctx context.Context, hidden bool) (string, error) {
	if t.pending == nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		ch := make(chan readResult, 1)
		t.pending = ch
		go func() {
			line, err := t.readNow(hidden)
			ch <- readResult{line: line, err: err}
		}()
	}

	select {
	case res := <-t.pending:
		t.pending = nil

		return res.line, res.err
	case <-ctx.Done():
		// an abandoned hidden read still holds the terminal without echo
		if err := t.Restore(); err != nil {
			return "", fmt.Errorf("%w (failed to restore the terminal: %v)", ctx.Err(), err)
		}

		return "", ctx.Err()
	}
}

func (t *Terminal) readNow(hidden bool) (string, error) {
	if hidden {
		b, err := term.ReadPassword(t.fd)
		if err != nil {
			return "", fmt.Errorf("failed to read from terminal: %w", err)
		}

		return string(b), nil
	}

	line, err := t.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: %w", ErrEmptyInput, err)
		}

		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimRight(line, "\r\n"), nil
}
