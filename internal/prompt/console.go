// Package prompt renders the wizard on a line-oriented terminal.
//
// Console implements flow.Prompter over any reader and writer, so the same
// code serves an interactive terminal, a pipe, and tests.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/term"

	"incorporator/internal/domain"
	"incorporator/internal/flow"
)

type line struct {
	text string
	err  error
}

// Console is a flow.Prompter reading answers one line at a time.
type Console struct {
	in  io.Reader
	out io.Writer
	// fd is the terminal file descriptor, or -1 when input is not a terminal.
	fd int

	once  sync.Once
	lines chan line
}

// NewConsole returns a Console reading from in and writing to out. When in
// is a terminal, secrets are read without echo.
func NewConsole(in io.Reader, out io.Writer) *Console {
	c := &Console{in: in, out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.fd = int(f.Fd())
	}
	return c
}

func (c *Console) start() {
	c.lines = make(chan line)
	go func() {
		defer close(c.lines)
		r := bufio.NewReader(c.in)
		for {
			s, err := r.ReadString('\n')
			if s != "" || err == nil {
				c.lines <- line{text: strings.TrimRight(s, "\r\n")}
			}
			if err != nil {
				c.lines <- line{err: err}
				return
			}
		}
	}()
}

// readLine returns the next input line. End of input is reported as
// domain.ErrCancelled.
func (c *Console) readLine(ctx context.Context) (string, error) {
	c.once.Do(c.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-c.lines:
		switch {
		case !ok || errors.Is(l.err, io.EOF):
			return "", domain.ErrCancelled
		case l.err != nil:
			return "", l.err
		}
		return l.text, nil
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) header(q flow.Question) {
	c.printf("\n%s\n", labelStyle.Render(q.Label))
	if q.Help != "" {
		c.printf("%s\n", mutedStyle.Render(q.Help))
	}
}

// Input asks a free-text question. An empty answer selects q.Default.
func (c *Console) Input(ctx context.Context, q flow.Question) (string, error) {
	if q.Secret {
		return c.Secret(ctx, q.Label)
	}
	prompt := q.Label
	if q.Default != "" {
		prompt += " " + mutedStyle.Render("["+q.Default+"]")
	}
	c.printf("%s: ", prompt)
	s, err := c.readLine(ctx)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return q.Default, nil
	}
	return s, nil
}

// Select lists options numbered from 1 and returns the chosen index, or -1
// for an answer that is not an option number.
func (c *Console) Select(ctx context.Context, q flow.Question, options []string, def int) (int, error) {
	c.header(q)
	for i, o := range options {
		marker := " "
		if i == def {
			marker = "*"
		}
		c.printf(" %s %d) %s\n", marker, i+1, o)
	}
	c.printf("Choose %s: ", mutedStyle.Render(fmt.Sprintf("[%d]", def+1)))
	s, err := c.readLine(ctx)
	if err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1, nil
	}
	return n - 1, nil
}

// Confirm asks a yes/no question until it gets an answer.
func (c *Console) Confirm(ctx context.Context, label string, def bool) (bool, error) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}
	for {
		c.printf("%s %s: ", label, mutedStyle.Render(hint))
		s, err := c.readLine(ctx)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.printf("%s\n", warningStyle.Render("Please answer y or n."))
	}
}

// Review prints the draft and reads the next action. Entering nothing
// refreshes the screen, which picks up a name check that has since resolved.
func (c *Console) Review(ctx context.Context, s flow.Summary, check flow.NameCheckView) (flow.ReviewAction, error) {
	c.printf("\n%s\n", RenderSummary(s, check))
	fields := s.Fields()
	for {
		c.printf("[c]onfirm, edit [1-%d], [r]efresh, [q]uit: ", len(fields))
		in, err := c.readLine(ctx)
		if err != nil {
			return flow.ReviewAction{}, err
		}
		if a, ok := parseReview(in, fields); ok {
			return a, nil
		}
		c.printf("%s\n", warningStyle.Render("Unrecognised choice."))
	}
}

func parseReview(in string, fields []domain.Field) (flow.ReviewAction, bool) {
	in = strings.ToLower(strings.TrimSpace(in))
	switch in {
	case "c", "confirm":
		return flow.ReviewAction{Kind: flow.ReviewConfirm}, true
	case "", "r", "refresh":
		return flow.ReviewAction{Kind: flow.ReviewRefresh}, true
	case "q", "quit":
		return flow.ReviewAction{Kind: flow.ReviewQuit}, true
	}
	in = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(in, "edit"), "e"))
	n, err := strconv.Atoi(in)
	if err != nil || n < 1 || n > len(fields) {
		return flow.ReviewAction{}, false
	}
	return flow.ReviewAction{Kind: flow.ReviewEdit, Field: fields[n-1]}, true
}

// Notify prints a one-line message.
func (c *Console) Notify(level flow.Level, msg string) {
	switch level {
	case flow.LevelWarn:
		msg = warningStyle.Render("! " + msg)
	case flow.LevelError:
		msg = errorStyle.Render("x " + msg)
	default:
		msg = mutedStyle.Render(msg)
	}
	c.printf("%s\n", msg)
}

// Secret reads a line without echo when input is a terminal. On a terminal
// it must be called before any other prompt, since those leave a reader
// blocked on the same descriptor.
func (c *Console) Secret(ctx context.Context, label string) (string, error) {
	c.printf("%s: ", label)
	if c.fd < 0 {
		return c.readLine(ctx)
	}
	b, err := term.ReadPassword(c.fd)
	c.printf("\n")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var _ flow.Prompter = (*Console)(nil)
