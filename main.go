package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"panelfiles/config"
	"panelfiles/core"
	"panelfiles/logging"
	"panelfiles/ui"
)

func main() {
	configPath := flag.String("config", "config.toml", "Path to config file")
	journalPath := flag.String("journal", "", "Path to rename journal (overrides journal_path)")
	history := flag.Int("history", 0, "Print the last N journal entries and exit")
	flag.Parse()

	// 1. Load Config
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *journalPath != "" {
		cfg.JournalPath = *journalPath
	}

	if err := logging.Init(logging.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.Output,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	// 2. Init Journal
	journal := core.NewJournal(cfg.JournalPath)
	if err := journal.Load(); err != nil {
		logging.Warn("failed to load journal", logging.String("path", cfg.JournalPath), logging.Err(err))
	}
	if *history > 0 {
		printHistory(journal, *history)
		return
	}

	if err := run(cfg, journal); err != nil {
		logging.Error("panelfiles exited", logging.Err(err))
		fmt.Fprintln(os.Stderr, err)
		logging.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, journal *core.Journal) error {
	// 3. Connect backend
	fs, err := core.NewFileSystem(cfg.Server)
	if err != nil {
		return err
	}
	defer fs.Close()

	listing := core.NewListing(fs, cfg.Server.StartDirectory)
	selection := &core.Selection{}
	flashes := &ui.Flashes{}
	coord := core.NewCoordinator(fs, listing, selection, flashes)
	coord.SetRecorder(journal)

	var watcher *core.Watcher
	opts := ui.Options{
		RootLabel: cfg.Server.RootLabel,
		OnNavigate: func(dir string) {
			if watcher == nil {
				return
			}
			if err := watcher.Follow(dir); err != nil {
				logging.Warn("watch failed", logging.String("directory", dir), logging.Err(err))
			}
		},
	}
	p := tea.NewProgram(ui.New(listing, selection, coord, flashes, opts), tea.WithAltScreen())
	refreshed := func() { p.Send(ui.RefreshedMsg{}) }

	// 4. Init Runner
	runner := core.NewRunner(cfg.Refresh.Cron, listing, coord)
	runner.OnRefresh = refreshed
	if err := runner.Start(); err != nil {
		return err
	}
	defer runner.Stop()

	if cfg.Refresh.Watch {
		if cfg.Server.Type != "local" {
			logging.Warn("refresh.watch ignored for remote backend", logging.String("type", cfg.Server.Type))
		} else {
			watcher, err = core.NewWatcher(cfg.Server.RootPath, listing, coord, refreshed)
			if err != nil {
				return err
			}
			defer watcher.Close()
		}
	}

	logging.Info("panelfiles started",
		logging.String("type", cfg.Server.Type),
		logging.String("directory", listing.Directory()))

	_, err = p.Run()
	logging.Info("shutting down")
	return err
}

func printHistory(journal *core.Journal, n int) {
	for _, e := range journal.Recent(n) {
		pairs := make([]string, 0, len(e.Pairs))
		for _, pr := range e.Pairs {
			pairs = append(pairs, pr.From+" -> "+pr.To)
		}
		status := "ok"
		if e.Error != "" {
			status = "failed: " + e.Error
		}
		fmt.Printf("%s  %-18s %s  %s  [%s]\n",
			e.At.Format("2006-01-02 15:04:05"), e.Kind, e.Directory, strings.Join(pairs, ", "), status)
	}
}
