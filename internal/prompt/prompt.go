package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrInputClosed is returned once the input stream is exhausted and no
// partial answer is pending.
var ErrInputClosed = errors.New("input closed")

// Prompter asks questions on out and reads the answers from in.
//
// Lines are read by a background goroutine so a pending question can be
// abandoned when its context is cancelled. At most one line is read ahead.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	startReader sync.Once
	lines       chan readResult
	// closed holds the error that ended the input, once it has been seen.
	closed error
}

type readResult struct {
	line string
	err  error
}

// New creates a Prompter over the given streams.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:    bufio.NewReader(in),
		out:   out,
		lines: make(chan readResult),
	}
}

func (p *Prompter) readLines() {
	for {
		line, err := p.in.ReadString('\n')
		p.lines <- readResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// Out returns the writer questions and messages are printed to.
func (p *Prompter) Out() io.Writer {
	return p.out
}

// Println prints a message line for the user.
func (p *Prompter) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Printf prints a formatted message for the user.
func (p *Prompter) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Ask prints the question and returns the trimmed answer line. It returns
// ctx.Err() as soon as ctx is cancelled, even while waiting for input.
func (p *Prompter) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprint(p.out, question)
	if !strings.HasSuffix(question, " ") {
		fmt.Fprint(p.out, " ")
	}
	if p.closed != nil {
		fmt.Fprintln(p.out)
		return "", p.closed
	}

	p.startReader.Do(func() { go p.readLines() })

	var res readResult
	select {
	case res = <-p.lines:
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	}

	if res.err != nil {
		if errors.Is(res.err, io.EOF) {
			p.closed = ErrInputClosed
			if res.line != "" {
				return strings.TrimSpace(res.line), nil
			}
			fmt.Fprintln(p.out)
			return "", ErrInputClosed
		}
		p.closed = fmt.Errorf("failed to read answer: %w", res.err)
		return "", p.closed
	}
	return strings.TrimSpace(res.line), nil
}

// AskRequired repeats the question until a non-empty answer is given.
// emptyMsg is printed after every empty answer.
func (p *Prompter) AskRequired(ctx context.Context, question, emptyMsg string) (string, error) {
	for {
		answer, err := p.Ask(ctx, question)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		p.Println(emptyMsg)
	}
}

// Confirm asks a yes/no question and repeats it until the answer is 'y' or 'n'.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	for {
		answer, err := p.Ask(ctx, question)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		default:
			p.Printf("Invalid option: '%s'. Please type 'y' or 'n'.\n", answer)
		}
	}
}

// AskPath asks for a filesystem path and cleans the answer with CleanPath.
func (p *Prompter) AskPath(ctx context.Context, question string) (string, error) {
	answer, err := p.Ask(ctx, question)
	if err != nil {
		return "", err
	}
	return CleanPath(answer), nil
}

// AskList asks for a comma-separated list and splits it with SplitList.
func (p *Prompter) AskList(ctx context.Context, question string) ([]string, error) {
	answer, err := p.Ask(ctx, question)
	if err != nil {
		return nil, err
	}
	return SplitList(answer), nil
}
