package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/stickytree/pkg/config"
	"github.com/vanderheijden86/stickytree/pkg/export"
	"github.com/vanderheijden86/stickytree/pkg/loader"
	"github.com/vanderheijden86/stickytree/pkg/metrics"
	"github.com/vanderheijden86/stickytree/pkg/model"
	"github.com/vanderheijden86/stickytree/pkg/ui"
	"github.com/vanderheijden86/stickytree/pkg/version"
	"github.com/vanderheijden86/stickytree/pkg/watcher"
)

// flags holds the parsed command line.
type flags struct {
	configPath   string
	overscan     int
	noRenderRoot bool
	bodies       bool
	watch        bool
	dump         bool
	scroll       string
	width        int
	height       int
	exportPath   string
	yes          bool
	cpuProfile   string
	version      bool
}

func parseFlags(fs *flag.FlagSet, args []string) (flags, error) {
	var f flags
	fs.StringVar(&f.configPath, "config", "", "Config file (default: XDG config dir)")
	fs.IntVar(&f.overscan, "overscan", -1, "Extra records rendered above and below the viewport")
	fs.BoolVar(&f.noRenderRoot, "no-render-root", false, "Render the root as a bare container without its own row")
	fs.BoolVar(&f.bodies, "bodies", false, "Render markdown bodies under titles")
	fs.BoolVar(&f.watch, "watch", false, "Reload when the source changes")
	fs.BoolVar(&f.dump, "dump", false, "Print one frame to stdout and exit")
	fs.StringVar(&f.scroll, "scroll", "", "Initial scroll position: offset, N% or @id")
	fs.IntVar(&f.width, "width", 0, "Viewport width for --dump/--export (default: terminal width)")
	fs.IntVar(&f.height, "height", 0, "Viewport height for --dump/--export (default: terminal height)")
	fs.StringVar(&f.exportPath, "export", "", "Write a layout snapshot (.svg or .png) and exit")
	fs.BoolVar(&f.yes, "yes", false, "Skip confirmation prompts (use with --export)")
	fs.StringVar(&f.cpuProfile, "cpu-profile", "", "Write CPU profile to file")
	fs.BoolVar(&f.version, "version", false, "Show version")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: stv [options] <file|dir>")
		fmt.Fprintln(fs.Output(), "\nA windowed tree viewer with sticky ancestor headers.")
		fs.PrintDefaults()
	}
	return f, fs.Parse(args)
}

// applyFlags overrides config values with explicitly set flags.
func applyFlags(cfg *config.Config, f flags) {
	if f.overscan >= 0 {
		cfg.View.OverscanRowCount = f.overscan
	}
	if f.noRenderRoot {
		cfg.View.RenderRoot = false
	}
	if f.bodies {
		cfg.View.ShowBodies = true
	}
	if f.watch {
		cfg.Watch.Enabled = true
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("stv", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f, err := parseFlags(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if f.version {
		fmt.Fprintf(stdout, "stv %s\n", version.String())
		return 0
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	path := fs.Arg(0)

	// CPU profiling support
	if f.cpuProfile != "" {
		pf, err := os.Create(f.cpuProfile)
		if err != nil {
			fmt.Fprintf(stderr, "Could not create CPU profile: %v\n", err)
			return 1
		}
		defer pf.Close()
		if err := pprof.StartCPUProfile(pf); err != nil {
			fmt.Fprintf(stderr, "Could not start CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	var cfg config.Config
	if f.configPath != "" {
		cfg, err = config.LoadFrom(f.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	applyFlags(&cfg, f)

	loadOpts := loader.Options{MaxDepth: cfg.Loader.MaxDepth, ShowHidden: cfg.Loader.ShowHidden}
	reload := func(ctx context.Context) (*model.Document, error) {
		return loader.Load(ctx, path, loadOpts)
	}

	doc, err := reload(context.Background())
	if err != nil {
		fmt.Fprintf(stderr, "Error loading %s: %v\n", path, err)
		return 1
	}

	if os.Getenv("STV_METRICS_REPORT") != "" {
		defer metrics.WriteReport(stderr)
	}

	if f.dump || f.exportPath != "" {
		if err := runHeadless(doc, cfg, f, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	opts := []ui.Option{ui.WithReloader(reload)}
	if cfg.Watch.Enabled {
		w, err := watcher.NewWatcher(path,
			watcher.WithDebounceDuration(cfg.Watch.Debounce()),
			watcher.WithPollInterval(cfg.Watch.PollInterval()),
			watcher.WithForcePoll(cfg.Watch.ForcePoll),
		)
		if err != nil {
			fmt.Fprintf(stderr, "Error watching %s: %v\n", path, err)
			return 1
		}
		if err := w.Start(); err != nil {
			fmt.Fprintf(stderr, "Error watching %s: %v\n", path, err)
			return 1
		}
		defer w.Stop()
		opts = append(opts, ui.WithWatcher(w))
	}

	m := ui.NewModel(doc, cfg.View, opts...)
	if f.scroll != "" {
		if err := m.Goto(f.scroll); err != nil {
			fmt.Fprintf(stderr, "Error: --scroll: %v\n", err)
			return 1
		}
	}

	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(stderr, "Error running viewer: %v\n", err)
		return 1
	}
	return 0
}

// runHeadless handles --dump and --export without starting the TUI.
func runHeadless(doc *model.Document, cfg config.Config, f flags, stdout io.Writer) error {
	width, height := terminalSize(f.width, f.height)
	m := ui.NewModel(doc, cfg.View, ui.WithTheme(ui.TestTheme()))
	// The model reserves a header and footer, the frame gets the rest.
	next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	m = next.(ui.Model)
	if f.scroll != "" {
		if err := m.Goto(f.scroll); err != nil {
			return fmt.Errorf("--scroll: %w", err)
		}
	}

	if f.dump {
		for _, line := range m.Frame().Lines {
			fmt.Fprintln(stdout, line)
		}
	}

	if f.exportPath != "" {
		if !f.yes {
			if err := export.ConfirmOverwrite(f.exportPath); err != nil {
				return err
			}
		}
		err := export.SaveLayoutSnapshot(m.Tree(), func(n *model.Node) string { return n.Title }, export.SnapshotOptions{
			Path:   f.exportPath,
			Title:  doc.Title,
			Preset: cfg.Export.Preset,
		})
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(stdout, "Wrote %s\n", f.exportPath)
	}
	return nil
}

// terminalSize resolves the viewport size from flags, falling back to the
// terminal size and then to 80x24.
func terminalSize(width, height int) (int, int) {
	if width > 0 && height > 0 {
		return width, height
	}
	tw, th, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || tw <= 0 || th <= 0 {
		tw, th = 80, 24
	}
	if width <= 0 {
		width = tw
	}
	if height <= 0 {
		height = th
	}
	return width, height
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set STV_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("STV_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
