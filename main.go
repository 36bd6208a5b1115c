// chatdeck - A terminal chat client for simulated generative-text models.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"chatdeck/internal/catalog"
	"chatdeck/internal/chat"
	"chatdeck/internal/config"
	"chatdeck/internal/export"
	"chatdeck/internal/generate"
	"chatdeck/internal/model"
	"chatdeck/internal/storage"
	"chatdeck/internal/store"
	"chatdeck/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version and exit")
		configPath  = flag.String("config", "", "path to config file")
		debugLog    = flag.String("debug", "", "write debug log to file")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("chatdeck %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	// Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Debug logging (flag overrides config)
	logFile := cfg.Debug.LogFile
	if *debugLog != "" {
		logFile = *debugLog
	}
	if logFile != "" {
		f, err := tea.LogToFile(logFile, "chatdeck")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: could not open debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	// Open durable storage; fall back to in-memory when the database
	// cannot be opened so the app still runs (state just won't survive).
	var kv storage.KV
	var closeKV func() error
	statePath, err := cfg.StatePath()
	if err == nil {
		if db, openErr := storage.OpenSQLiteKV(statePath); openErr == nil {
			kv = db
			closeKV = db.Close
		} else {
			fmt.Fprintf(os.Stderr, "Warning: persistent storage unavailable: %v\n", openErr)
		}
	}
	if kv == nil {
		kv = storage.NewMemoryKV()
	}
	if closeKV != nil {
		defer closeKV()
	}

	// State store, seeded from config then overlaid with persisted state.
	st := store.New()
	st.SetCurrentModel(cfg.DefaultModel)
	st.SetTheme(cfg.Theme())

	bridge := storage.NewBridge(kv)
	bridge.Restore(st)
	detachBridge := bridge.Attach(st)
	defer detachBridge()

	// Response generator with configured timing.
	gen := generate.NewSimulator()
	gen.ResponseDelay.Min, gen.ResponseDelay.Max = cfg.ResponseDelay()
	gen.TokenDelay.Min, gen.TokenDelay.Max = cfg.TokenDelay()

	cat := catalog.NewStatic()
	orch := chat.New(st, gen, cat, cat)

	var exporter export.Exporter = export.NewJSONExporter()
	if cfg.Export.Format == "markdown" {
		exporter = export.NewMarkdownExporter()
	}

	m := ui.New(st, orch, cfg.Export.Dir, exporter)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Forward store transitions and streaming progress into the UI loop.
	unsubscribe := st.Subscribe(func(s store.State) {
		p.Send(ui.StateMsg{State: s})
	})
	defer unsubscribe()

	orch.OnInFlight(func(sessionID string, msg model.Message, done bool) {
		p.Send(ui.InFlightMsg{SessionID: sessionID, Message: msg, Done: done})
	})

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running chatdeck: %v\n", err)
		os.Exit(1)
	}
}
