// Command gv tracks grievances in a local JSON file. Without flags it runs
// the interactive numbered menu; flags select one-shot commands or the
// full-screen browser.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/Dicklesworthstone/gv/pkg/config"
	"github.com/Dicklesworthstone/gv/pkg/export"
	"github.com/Dicklesworthstone/gv/pkg/history"
	"github.com/Dicklesworthstone/gv/pkg/loader"
	"github.com/Dicklesworthstone/gv/pkg/menu"
	"github.com/Dicklesworthstone/gv/pkg/model"
	"github.com/Dicklesworthstone/gv/pkg/store"
	"github.com/Dicklesworthstone/gv/pkg/ui"
)

// Exit codes
const (
	ExitSuccess           = 0
	ExitFailure           = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
)

var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options is the parsed command line
type options struct {
	dataPath   string
	configPath string
	strict     bool
	debug      bool
	history    bool

	list     bool
	showID   int
	query    string
	stats    bool
	export   string
	schema   bool
	check    bool
	activity int
	tui      bool

	status model.Status
	sortBy model.SortKey
	format export.Format
	json   bool

	set map[string]bool
}

// modeFlags select what the run does; at most one may be given
var modeFlags = []string{"list", "show", "search", "stats", "export", "schema", "check", "activity", "tui"}

type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func newFlagSet(o *options, rawStatus, rawSort, rawFormat *string, help, showVersion *bool) *flag.FlagSet {
	fs := flag.NewFlagSet("gv", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&o.dataPath, "data", "", "Path to the grievances JSON file (default: data/grievances.json next to the binary)")
	fs.StringVar(&o.configPath, "config", "", "Path to config.yaml (default: config.yaml next to the data file, if present)")
	fs.BoolVar(&o.strict, "strict", false, "Fail on a corrupt data file instead of starting empty")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&o.history, "history", false, "Record activity in a SQLite history database")

	fs.BoolVar(&o.list, "list", false, "List grievances and exit")
	fs.IntVar(&o.showID, "show", 0, "Show one grievance by id and exit")
	fs.StringVar(&o.query, "search", "", "Fuzzy search title, author and description")
	fs.BoolVar(&o.stats, "stats", false, "Print summary statistics")
	fs.StringVar(&o.export, "export", "", "Export to a file (json, yaml, csv, md, svg, png)")
	fs.BoolVar(&o.schema, "schema", false, "Print the JSON Schema of the data file")
	fs.BoolVar(&o.check, "check", false, "Validate the data file against the schema")
	fs.IntVar(&o.activity, "activity", 0, "Print the N most recent history events")
	fs.BoolVar(&o.tui, "tui", false, "Open the full-screen browser")

	fs.StringVar(rawStatus, "status", "", "Filter by status: open|resolved")
	fs.StringVar(rawSort, "sort", "date", "Sort order: date|date-desc|votes")
	fs.StringVar(rawFormat, "format", "", "Export format (default: from the --export extension)")
	fs.BoolVar(&o.json, "json", false, "Print JSON instead of text")

	fs.BoolVar(help, "help", false, "Show help")
	fs.BoolVar(showVersion, "version", false, "Show version")
	return fs
}

func parseArgs(args []string, stdout io.Writer) (options, bool, error) {
	var o options
	var rawStatus, rawSort, rawFormat string
	var help, showVersion bool

	fs := newFlagSet(&o, &rawStatus, &rawSort, &rawFormat, &help, &showVersion)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout, fs)
			return o, true, nil
		}
		return o, false, usagef("%v", err)
	}
	if help {
		printUsage(stdout, fs)
		return o, true, nil
	}
	if showVersion {
		fmt.Fprintf(stdout, "gv version %s\n", version)
		return o, true, nil
	}
	if fs.NArg() != 0 {
		return o, false, usagef("unexpected arguments: %q", strings.Join(fs.Args(), " "))
	}

	o.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	var modes []string
	for _, name := range modeFlags {
		if o.set[name] {
			modes = append(modes, "--"+name)
		}
	}
	if len(modes) > 1 {
		return o, false, usagef("choose one of %s", strings.Join(modes, ", "))
	}

	var err error
	if o.status, err = model.ParseStatus(rawStatus); err != nil {
		return o, false, usagef("%v", err)
	}
	if o.sortBy, err = model.ParseSortKey(rawSort); err != nil {
		return o, false, usagef("%v", err)
	}
	if rawFormat != "" {
		if o.format, err = export.ParseFormat(rawFormat); err != nil {
			return o, false, usagef("%v", err)
		}
	}
	if o.set["show"] && o.showID <= 0 {
		return o, false, usagef("--show needs a positive id")
	}
	if o.set["search"] && strings.TrimSpace(o.query) == "" {
		return o, false, usagef("--search needs a query")
	}
	if o.set["activity"] && o.activity <= 0 {
		return o, false, usagef("--activity needs a positive count")
	}
	if o.set["export"] && o.export == "" {
		return o, false, usagef("--export needs a path")
	}
	return o, false, nil
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: gv [options]")
	fmt.Fprintln(w, "\nTrack, vote on and resolve grievances stored in a local JSON file.")
	fmt.Fprintln(w, "Without a command flag gv runs the interactive menu.")
	fmt.Fprintln(w, "\nOptions:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
}

// env carries everything a command needs
type env struct {
	opts    options
	cfg     config.Config
	store   *store.Store
	history *history.SessionManager
	logger  *slog.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, done, err := parseArgs(args, stdout)
	if done {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(stderr, "gv: %v\n", err)
		fmt.Fprintln(stderr, "Run 'gv --help' for usage.")
		return ExitInvalidInvocation
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "gv: %v\n", err)
		return ExitConfigError
	}

	dataPath := opts.dataPath
	if dataPath == "" {
		dataPath = cfg.DataPath
	}
	if dataPath == "" {
		dataPath = loader.DefaultDataPath()
	}
	strict := opts.strict || cfg.Strict

	logger, closeLog := newLogger(opts, cfg, dataPath, stderr)
	defer closeLog()
	slog.SetDefault(logger)
	logger.Debug("starting", "data", dataPath, "strict", strict)

	e := &env{opts: opts, cfg: cfg, logger: logger, stdin: stdin, stdout: stdout, stderr: stderr}

	storeOpts := []store.Option{
		store.WithLogger(logger),
		store.WithCorruptRecovery(!strict),
	}
	if wantsHistory(opts, cfg) {
		dbPath := cfg.History.Path
		if dbPath == "" {
			dbPath = history.DefaultDBPath(dataPath)
		}
		if sm := history.TryOpen(dbPath, cfg.History.Driver, logger); sm != nil {
			defer sm.Close()
			e.history = sm
			storeOpts = append(storeOpts, store.WithRecorder(sm))
		}
	}
	e.store = store.New(dataPath, storeOpts...)

	if err := dispatch(e); err != nil {
		var notFound *notFoundError
		switch {
		case errors.As(err, &notFound):
			fmt.Fprintln(stderr, notFound.Error())
		case errors.Is(err, store.ErrCorruptData):
			fmt.Fprintf(stderr, "gv: %v\n", err)
			fmt.Fprintln(stderr, "The data file is corrupt. Re-run without --strict to start over with an empty collection.")
		default:
			fmt.Fprintf(stderr, "gv: %v\n", err)
		}
		return ExitFailure
	}
	return ExitSuccess
}

// loadConfig reads --config, or config.yaml beside the data file when present
func loadConfig(opts options) (config.Config, error) {
	if opts.configPath != "" {
		return config.Load(opts.configPath)
	}
	dataPath := opts.dataPath
	if dataPath == "" {
		dataPath = loader.DefaultDataPath()
	}
	return config.LoadOptional(config.DefaultPath(dataPath))
}

// wantsHistory opens the database only for runs that write or read activity
func wantsHistory(opts options, cfg config.Config) bool {
	if opts.set["activity"] {
		return true
	}
	if !opts.history && !cfg.History.Enabled {
		return false
	}
	if opts.set["show"] {
		return true
	}
	interactive := opts.tui || !(opts.list || opts.set["search"] ||
		opts.stats || opts.set["export"] || opts.schema || opts.check)
	return interactive
}

// newLogger writes text logs to stderr. The browser owns the terminal, so
// there debug logs go to gv.log beside the data file and everything else is
// dropped.
func newLogger(opts options, cfg config.Config, dataPath string, stderr io.Writer) (*slog.Logger, func()) {
	level := cfg.SlogLevel()
	if opts.debug {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	if !opts.tui {
		return slog.New(slog.NewTextHandler(stderr, handlerOpts)), func() {}
	}
	if !opts.debug {
		return slog.New(slog.NewTextHandler(io.Discard, handlerOpts)), func() {}
	}
	logPath := filepath.Join(filepath.Dir(dataPath), "gv.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err == nil {
		if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			return slog.New(slog.NewTextHandler(f, handlerOpts)), func() { f.Close() }
		}
	}
	return slog.New(slog.NewTextHandler(io.Discard, handlerOpts)), func() {}
}

func dispatch(e *env) error {
	o := e.opts
	switch {
	case o.schema:
		return cmdSchema(e)
	case o.check:
		return cmdCheck(e)
	case o.list:
		return cmdList(e)
	case o.set["show"]:
		return cmdShow(e)
	case o.set["search"]:
		return cmdSearch(e)
	case o.stats:
		return cmdStats(e)
	case o.set["export"]:
		return cmdExport(e)
	case o.set["activity"]:
		return cmdActivity(e)
	case o.tui:
		return cmdBrowse(e)
	default:
		return cmdMenu(e)
	}
}

// isTerminal reports whether v is a terminal file
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(v any) int {
	if f, ok := v.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return menu.DefaultWidth
}

// descriptionRenderer uses glamour on a terminal and plain wrapping otherwise
func descriptionRenderer(e *env) menu.Renderer {
	if !isTerminal(e.stdout) {
		return menu.PlainRenderer(menu.DefaultWidth)
	}
	width := terminalWidth(e.stdout)
	r, err := menu.GlamourRenderer(width - 4)
	if err != nil {
		e.logger.Warn("markdown rendering unavailable", "error", err)
		return menu.PlainRenderer(width)
	}
	return r
}

func cmdMenu(e *env) error {
	var p menu.Prompter
	if isTerminal(e.stdin) && isTerminal(e.stdout) {
		p = menu.NewFormPrompter(e.stdin, e.stdout)
	} else {
		p = menu.NewLinePrompter(e.stdin, e.stdout)
	}
	m := menu.New(e.store, p, e.stdout,
		menu.WithRenderer(descriptionRenderer(e)),
		menu.WithLogger(e.logger),
	)
	return m.Run()
}

func cmdBrowse(e *env) error {
	opts := []ui.Option{
		ui.WithTheme(ui.DefaultTheme(nil).WithAccent(e.cfg.Theme.Accent)),
		ui.WithLogger(e.logger),
	}
	if e.history != nil {
		opts = append(opts, ui.WithHistory(e.history))
	}
	return ui.Run(e.store, opts...)
}
