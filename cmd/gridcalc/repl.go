package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nickandperla.net/gridcalc/pkg/gridcalc"
)

const historyFile = ".gridcalc_history"

var refPattern = regexp.MustCompile(`^[A-Za-z][0-9]+$`)

// lineReader is satisfied by *liner.State and basicReader.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// basicReader handles non-TTY input (piped input).
type basicReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (b *basicReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(b.out, prompt)
	if !b.scanner.Scan() {
		if err := b.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return b.scanner.Text(), nil
}

func (b *basicReader) AppendHistory(string) {}

func (c *cli) replCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl [FILE]",
		Short: "Inspect and edit a sheet interactively",
		Long: `Starts an interactive session over FILE, or over a --rows x --cols sheet
of zeros when no FILE is given.

  B2            print a cell
  B2 = A1*2     replace a cell's text and re-evaluate the sheet
  A1+B2/2       evaluate an expression against the sheet
  :rows         print every cell
  :save NAME    store the sheet
  :write PATH   write the values to a file
  :quit         exit
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.sheetOptions(c.cfg.Store.Driver != "none")
			if err != nil {
				return err
			}

			var s *gridcalc.Sheet
			if len(args) == 1 {
				s, err = gridcalc.FromFile(args[0], opts...)
			} else {
				s, err = gridcalc.New(zeros(c.rows, c.cols), opts...)
			}
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Evaluate(); err != nil {
				fmt.Fprintf(c.out, "Error: %v\n", err)
			}
			return c.runREPL(s)
		},
	}
	cmd.Flags().IntVar(&c.rows, "rows", 10, "rows of the empty sheet")
	cmd.Flags().IntVar(&c.cols, "cols", 10, "columns of the empty sheet")
	return cmd
}

// zeros builds a rows x cols sheet of "0" cells. Empty text would be a
// malformed expression.
func zeros(rows, cols int) [][]string {
	raw := make([][]string, max(rows, 0))
	for i := range raw {
		raw[i] = make([]string, max(cols, 0))
		for j := range raw[i] {
			raw[i][j] = "0"
		}
	}
	return raw
}

func (c *cli) runREPL(s *gridcalc.Sheet) error {
	fmt.Fprintln(c.out, "gridcalc REPL (:quit or Ctrl+D to exit)")

	f, ok := c.in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return c.loop(s, &basicReader{scanner: bufio.NewScanner(c.in), out: c.out})
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := c.historyPath()
	if hf, err := os.Open(histPath); err == nil {
		ln.ReadHistory(hf)
		hf.Close()
	}
	defer func() {
		if hf, err := os.Create(histPath); err == nil {
			ln.WriteHistory(hf)
			hf.Close()
		}
	}()

	return c.loop(s, ln)
}

func (c *cli) historyPath() string {
	if c.cfg.History != "" {
		return c.cfg.History
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, historyFile)
}

func (c *cli) loop(s *gridcalc.Sheet, lr lineReader) error {
	for {
		line, err := lr.Prompt(">>> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(c.out)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lr.AppendHistory(line)

		quit, err := c.handle(s, line)
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// handle runs one REPL line and reports whether the session should end.
func (c *cli) handle(s *gridcalc.Sheet, line string) (bool, error) {
	if strings.HasPrefix(line, ":") {
		command, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		switch command {
		case ":quit", ":q":
			return true, nil
		case ":rows":
			return false, s.Write(c.out)
		case ":save":
			if arg == "" {
				return false, errors.New("usage: :save NAME")
			}
			if err := s.Save(arg); err != nil {
				return false, err
			}
			fmt.Fprintf(c.out, "Saved %s\n", arg)
			return false, nil
		case ":write":
			if arg == "" {
				arg = c.cfg.Output
			}
			if err := s.WriteFile(arg); err != nil {
				return false, err
			}
			fmt.Fprintf(c.out, "Output to file %s\n", arg)
			return false, nil
		default:
			return false, fmt.Errorf("unknown command %s (try :rows, :save, :write or :quit)", command)
		}
	}

	if ref, text, ok := strings.Cut(line, "="); ok {
		ref = strings.TrimSpace(ref)
		if !refPattern.MatchString(ref) {
			return false, fmt.Errorf("cannot assign to %q", ref)
		}
		if err := s.SetCell(ref, strings.TrimSpace(text)); err != nil {
			return false, err
		}
		v, err := s.Cell(ref)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(c.out, v)
		return false, nil
	}

	if refPattern.MatchString(line) {
		v, err := s.Cell(line)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(c.out, v)
		return false, nil
	}

	v, err := s.Expression(line)
	if err != nil {
		return false, err
	}
	fmt.Fprintln(c.out, gridcalc.FormatNumber(v))
	return false, nil
}
