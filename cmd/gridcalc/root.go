package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"nickandperla.net/gridcalc/internal/config"
	"nickandperla.net/gridcalc/internal/logutil"
	"nickandperla.net/gridcalc/pkg/gridcalc"
)

// cli holds the streams and flag values shared by every command.
type cli struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	verbose    bool
	file       string
	output     string
	print      bool
	save       string
	driver     string
	dbPath     string
	precision  int
	delimiter  string
	worksheet  string
	limit      int
	rows       int
	cols       int

	cfg *config.Config
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "gridcalc",
		Short: "gridcalc evaluates grids of arithmetic cell expressions",
		Long: `gridcalc reads a grid of cells, evaluates every cell expression and writes
the values out.

A cell holds a number (12, -3.5) or an expression of numbers and references
joined by + - * / (B2+2, A1*A1-3). References name a cell by column letter and
1-based row number.

Commands:
  eval     Evaluate a file and write the values
  show     Print a stored sheet
  history  List stored versions of a sheet
  list     List stored sheets
  delete   Remove a stored sheet and its history
  repl     Inspect and edit a sheet interactively

-file FILE is accepted as a synonym of --file FILE.
`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
		Args:              cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.file == "" {
				return cmd.Help()
			}
			return c.runEval(c.file)
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "gridcalc.yaml", "configuration file")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "trace evaluation to stderr")
	pf.StringVarP(&c.output, "out", "o", "", "output file, .csv or .xlsx (default from config, output.csv)")
	pf.BoolVar(&c.print, "print", false, "print values to stdout instead of writing a file")
	pf.StringVar(&c.save, "save", "", "store the evaluated sheet under this name")
	pf.StringVar(&c.driver, "store", "", "store driver: sqlite, bolt, memory or none")
	pf.StringVar(&c.dbPath, "db", "", "store database path")
	pf.IntVar(&c.precision, "precision", 0, "decimals kept in output")
	pf.StringVar(&c.delimiter, "delimiter", "", "field delimiter for delimited text")
	pf.StringVar(&c.worksheet, "sheet", "", "worksheet name for .xlsx files")
	root.Flags().StringVarP(&c.file, "file", "f", "", "input file to evaluate")

	root.AddCommand(c.evalCmd(), c.showCmd(), c.historyCmd(), c.listCmd(), c.deleteCmd(), c.replCmd())
	return root
}

// normalizeArgs rewrites the single-dash long form "-file" to "--file".
// pflag would otherwise read it as the shorthand -f with value "ile".
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		if arg == "-file" || strings.HasPrefix(arg, "-file=") {
			arg = "-" + arg
		}
		out = append(out, arg)
	}
	return out
}

// loadConfig reads the configuration file and applies explicitly set flags
// over it.
func (c *cli) loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("out") {
		cfg.Output = c.output
	}
	if f.Changed("precision") {
		cfg.Precision = c.precision
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = c.delimiter
	}
	if f.Changed("sheet") {
		cfg.Sheet = c.worksheet
	}
	if f.Changed("store") {
		cfg.Store.Driver = c.driver
	}
	if f.Changed("db") {
		cfg.Store.Path = c.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *cli) logger() *log.Logger {
	if c.verbose {
		return logutil.New(c.errOut, "gridcalc: ")
	}
	return logutil.Discard
}

func (c *cli) delim() rune {
	// Validated in loadConfig
	r, _ := c.cfg.DelimiterRune()
	return r
}

// sheetOptions builds the options for a sheet. The store is opened only
// when withStore is set.
func (c *cli) sheetOptions(withStore bool) ([]gridcalc.Option, error) {
	opts := []gridcalc.Option{
		gridcalc.WithLogger(c.logger()),
		gridcalc.WithPrecision(c.cfg.Precision),
		gridcalc.WithDelimiter(c.delim()),
		gridcalc.WithWorksheet(c.cfg.Sheet),
	}
	if withStore {
		st, err := c.openStore()
		if err != nil {
			return nil, err
		}
		opts = append(opts, gridcalc.WithStore(st))
	}
	return opts, nil
}

func (c *cli) openStore() (gridcalc.Store, error) {
	if c.cfg.Store.Driver == "none" {
		return nil, gridcalc.ErrNoStore
	}
	st, err := gridcalc.OpenStore(c.cfg.Store.Driver, c.cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s store %s: %w", c.cfg.Store.Driver, c.cfg.Store.Path, err)
	}
	return st, nil
}

func (c *cli) evalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval FILE",
		Short: "Evaluate a file and write the values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEval(args[0])
		},
	}
}

func (c *cli) runEval(path string) error {
	opts, err := c.sheetOptions(c.save != "")
	if err != nil {
		return err
	}
	s, err := gridcalc.FromFile(path, opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Evaluate(); err != nil {
		return err
	}
	if c.save != "" {
		if err := s.Save(c.save); err != nil {
			return err
		}
	}

	if c.print {
		return s.Write(c.out)
	}
	if err := s.WriteFile(c.cfg.Output); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Output to file %s\n", c.cfg.Output)
	return nil
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print the latest stored version of a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := st.Get(args[0])
			if err != nil {
				return err
			}
			if snap == nil {
				return fmt.Errorf("%w: %s", gridcalc.ErrNotFound, args[0])
			}
			return gridcalc.WriteCSV(c.out, gridcalc.Round(snap.Values, c.cfg.Precision), c.delim())
		},
	}
}

func (c *cli) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history NAME",
		Short: "List stored versions of a sheet, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.GetHistory(args[0], c.limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("%w: %s", gridcalc.ErrNotFound, args[0])
			}
			for _, e := range entries {
				rows, cols := len(e.Snapshot.Raw), 0
				if rows > 0 {
					cols = len(e.Snapshot.Raw[0])
				}
				fmt.Fprintf(c.out, "v%d\t%s\t%dx%d\n", e.Version, e.Ts, rows, cols)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&c.limit, "limit", "n", 0, "maximum number of versions (0 = all)")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			names, err := st.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(c.out, name)
			}
			return nil
		},
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a stored sheet and all its versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := st.Get(args[0])
			if err != nil {
				return err
			}
			if snap == nil {
				return fmt.Errorf("%w: %s", gridcalc.ErrNotFound, args[0])
			}
			if err := st.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Deleted %s\n", args[0])
			return nil
		},
	}
}
