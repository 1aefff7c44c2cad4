// Package shell implements the interactive contacts REPL on top of a
// contactbook.Repository. Each input line is tokenized shell-style, parsed
// against a kong command grammar and dispatched to the repository.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/shlex"
	"github.com/rs/zerolog"

	"github.com/sicko7947/contactbook"
)

const (
	appName        = "contacts-app"
	appDescription = "Small & primitive contacts application with a REPL CLI"
	banner         = appName + "\n\nUse `help` to discover more commands, or `quit` to exit the REPL\n"
)

// ErrInvalidQuoting is returned for lines with unbalanced quotes
var ErrInvalidQuoting = errors.New("invalid quoting")

// Shell reads commands line by line and runs them against a repository
type Shell struct {
	repo     contactbook.Repository
	out      io.Writer
	errOut   io.Writer
	logger   zerolog.Logger
	pageSize int
}

// Option configures the shell
type Option func(*Shell)

// WithOutput sets the writer for command output and the prompt
func WithOutput(w io.Writer) Option {
	return func(s *Shell) {
		s.out = w
	}
}

// WithErrorOutput sets the writer for error messages
func WithErrorOutput(w io.Writer) Option {
	return func(s *Shell) {
		s.errOut = w
	}
}

// WithLogger sets a custom logger for the shell
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Shell) {
		s.logger = logger
	}
}

// WithDefaultPageSize sets the page size `list` uses when none is given
func WithDefaultPageSize(size int) Option {
	return func(s *Shell) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// New creates a shell over repo. Output goes to stdout and stderr unless
// overridden.
func New(repo contactbook.Repository, opts ...Option) *Shell {
	s := &Shell{
		repo:     repo,
		out:      os.Stdout,
		errOut:   os.Stderr,
		logger:   zerolog.Nop(),
		pageSize: contactbook.DefaultConfig().List.DefaultPageSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run prints the banner and then prompts, reads and executes lines until
// quit, end of input or context cancellation. Command failures are printed
// and do not stop the loop.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprint(s.out, banner)

	scanner := bufio.NewScanner(in)
	for {
		s.prompt(ctx)

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			fmt.Fprintln(s.out)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		quit, err := s.Execute(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(s.errOut, "Err: %s\n", err)
			continue
		}
		if quit {
			return nil
		}
	}
}

func (s *Shell) prompt(ctx context.Context) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to count contacts for prompt")
		fmt.Fprint(s.out, "\n$ ")
		return
	}

	suffix := "s"
	if count == 1 {
		suffix = ""
	}
	fmt.Fprintf(s.out, "\n%d contact%s currently in the data store.\n\n$ ", count, suffix)
}

// Execute runs a single input line. It reports quit=true once the quit
// command has run. Blank lines are ignored.
func (s *Shell) Execute(ctx context.Context, line string) (quit bool, err error) {
	args, err := shlex.Split(strings.TrimSpace(line))
	if err != nil {
		return false, ErrInvalidQuoting
	}
	if len(args) == 0 {
		return false, nil
	}

	// `help [command]` is served by the grammar's own help flag
	if args[0] == "help" {
		args = append(args[1:], "--help")
	}

	sess := &session{ctx: ctx, shell: s}

	kctx, exited, err := s.parse(args)
	if err != nil {
		return false, err
	}
	if exited {
		return false, nil
	}

	s.logger.Debug().Str("command", kctx.Command()).Msg("Executing command")

	if err := kctx.Run(sess); err != nil {
		return false, err
	}
	return sess.quit, nil
}

// exitSignal carries kong's exit request out of the parser without
// terminating the process.
type exitSignal struct {
	code int
}

func (s *Shell) parse(args []string) (kctx *kong.Context, exited bool, err error) {
	var cmds commands

	parser, err := kong.New(&cmds,
		kong.Name(appName),
		kong.Description(appDescription),
		kong.Writers(s.out, s.errOut),
		kong.Exit(func(code int) { panic(exitSignal{code: code}) }),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to build command grammar: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(exitSignal); !ok {
				panic(r)
			}
			kctx, exited, err = nil, true, nil
		}
	}()

	kctx, err = parser.Parse(args)
	if err != nil {
		return nil, false, err
	}
	return kctx, false, nil
}

// session is bound into every command's Run method
type session struct {
	ctx   context.Context
	shell *Shell
	quit  bool
}

func (s *session) println(a ...any) {
	fmt.Fprintln(s.shell.out, a...)
}

func (s *session) unknownKey(name string) {
	fmt.Fprintf(s.shell.out, "No contact with name %s\n", name)
}

func (s *session) printContact(contact *contactbook.Contact) {
	fmt.Fprintf(s.shell.out, "Contact\n- name: %s\n- phone_no: %d\n- email: %s\n",
		contact.Name, contact.PhoneNo, contact.Email)
}
