package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"

	"xmlpad/internal/adapters/editor"
	"xmlpad/internal/adapters/tui"
	"xmlpad/internal/application/session"
	"xmlpad/internal/bootstrap"
	"xmlpad/internal/config"
)

func main() {
	configFlag := flag.String("config", config.Path(), "path to the config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: xmlpad [flags] <file.xml>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configFlag, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, path string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// the terminal belongs to the UI
	var logOut io.Writer = io.Discard
	if cfg.App.LogFile != "" {
		f, err := os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	env, err := bootstrap.New(cfg, bootstrap.WithLogOutput(logOut))
	if err != nil {
		return err
	}
	defer env.Close()

	s, err := openOrCreate(env, path)
	if err != nil {
		return err
	}

	opts := tui.Options{
		Editor: editor.NewOpener(),
		Logger: env.Logger,
	}
	if cfg.Editor.WatchFiles {
		w, err := tui.NewWatcher(env.Store.Resolve(path), env.Logger)
		if err != nil {
			env.Logger.Warn("file watching disabled", slog.Any("error", err))
		} else {
			defer w.Close()
			opts.Watcher = w
		}
	}

	p := tea.NewProgram(tui.NewApp(s, opts), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// openOrCreate opens path, creating an empty document there when it does not exist yet
func openOrCreate(env *bootstrap.Env, path string) (*session.Session, error) {
	if env.Store.Exists(path) {
		return env.OpenSession(path)
	}
	s := env.NewSession()
	if err := s.SaveAs(path); err != nil {
		return nil, err
	}
	return s, nil
}
