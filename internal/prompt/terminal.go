package prompt

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"
)

// Terminal prompts on an input stream, normally stdin, and writes prompts and notices to
// out, normally stderr, so stdout stays clean for command output.
type Terminal struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	hidden bool
	closer io.Closer
}

// Prompt implements Prompter.
func (t *Terminal) Prompt(ctx context.Context, message string, secret bool) (string, error) {
	if secret {
		answer, err := t.PromptSecret(ctx, message)
		if err != nil {
			return "", err
		}
		return string(answer), nil
	}

	_, _ = fmt.Fprint(t.out, message)
	line, err := await(ctx, t.readLine)
	if err != nil {
		return "", err
	}
	return string(line), nil
}

// PromptSecret implements SecretPrompter. On a terminal the answer never exists as a
// string; piped input still passes through the shared read buffer.
func (t *Terminal) PromptSecret(ctx context.Context, message string) ([]byte, error) {
	_, _ = fmt.Fprint(t.out, message)

	if t.hidden {
		return t.readHidden(ctx)
	}
	return await(ctx, t.readLine)
}

// Notify implements Prompter.
func (t *Terminal) Notify(message string) {
	_, _ = fmt.Fprintln(t.out, message)
}

func (t *Terminal) readHidden(ctx context.Context) ([]byte, error) {
	state, err := term.GetState(t.fd)
	if err != nil {
		return nil, fmt.Errorf("failed to read terminal state: %w", err)
	}

	answer, err := await(ctx, func() ([]byte, error) {
		return term.ReadPassword(t.fd)
	})

	// ReadPassword restores the terminal itself unless it was interrupted.
	_ = term.Restore(t.fd, state)
	_, _ = fmt.Fprintln(t.out)
	return answer, err
}

func (t *Terminal) readLine() ([]byte, error) {
	line, err := t.in.ReadBytes('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return bytes.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

// await runs a blocking read and gives up when ctx is done. The read goroutine stays
// blocked until input arrives; the process is expected to exit soon after.
func await[T any](ctx context.Context, read func() (T, error)) (T, error) {
	type result struct {
		answer T
		err    error
	}
	done := make(chan result, 1)
	go func() {
		answer, err := read()
		done <- result{answer: answer, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ErrCancelled
	case r := <-done:
		return r.answer, r.err
	}
}

// Close releases a terminal device opened by NewConsole.
func (t *Terminal) Close() error {
	if t.closer == nil {
		return nil
	}
	err := t.closer.Close()
	t.closer = nil
	return err
}

// NewTerminal creates a Terminal. Secret prompts hide input only when in is a terminal.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{
		in:  bufio.NewReader(in),
		out: out,
		fd:  -1,
	}
	if isTerminal(in) {
		t.fd = int(in.(*os.File).Fd())
		t.hidden = true
	}
	return t
}

// NewConsole creates a Terminal that keeps working when stdin carries data. If stdin is
// not a terminal, prompts are read from the device returned by openTTY instead; when that
// fails too, stdin is used.
func NewConsole(stdin io.Reader, out io.Writer, openTTY func() (io.ReadCloser, error)) *Terminal {
	if isTerminal(stdin) || openTTY == nil {
		return NewTerminal(stdin, out)
	}
	tty, err := openTTY()
	if err != nil {
		return NewTerminal(stdin, out)
	}
	t := NewTerminal(tty, out)
	t.closer = tty
	return t
}

// OpenTTY opens the controlling terminal of the process.
func OpenTTY() (io.ReadCloser, error) {
	name := "/dev/tty"
	if runtime.GOOS == "windows" {
		name = "CONIN$"
	}
	f, err := os.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
