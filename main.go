package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pdxmph/tasklist/internal/config"
	"github.com/pdxmph/tasklist/internal/kv"
	"github.com/pdxmph/tasklist/internal/kv/sqlite"
	"github.com/pdxmph/tasklist/internal/task"
	"github.com/pdxmph/tasklist/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.config/tasklist/config.toml)")
	backend := flag.String("backend", "", "storage backend: "+fmt.Sprint(kv.ListBackends()))
	initDB := flag.Bool("init", false, "create the task database and exit")
	fixtures := flag.String("fixtures", "", "create a database with sample tasks at `path` and exit")
	list := flag.Bool("list", false, "print tasks and exit")
	filterState := flag.String("filter", "", "with -list, only show tasks in this state")
	sortState := flag.String("sort-state", "", "with -list, move tasks in this state to the end")
	sortDeadline := flag.String("sort-deadline", "", "with -list, order by deadline: asc or desc")
	flag.Parse()

	// Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Fatal(err)
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
	}

	if *fixtures != "" {
		if err := createFixtures(*fixtures, cfg.Storage.Key); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Fixtures database created at %s\n", *fixtures)
		return
	}

	if *initDB {
		dbPath := filepath.Join(cfg.Storage.Dir, sqlite.FileName)
		if err := sqlite.Initialize(dbPath); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Database created at %s\n", dbPath)

		if *configPath == "" {
			written, err := writeDefaultConfig(cfg)
			if err != nil {
				log.Fatal(err)
			}
			if written != "" {
				fmt.Printf("Config written to %s\n", written)
			}
		}
		return
	}

	// Open storage
	storage, err := kv.Open(cfg.Storage.Backend, kv.Options{Dir: cfg.Storage.Dir})
	if err != nil {
		log.Fatal(err)
	}
	defer storage.Close()

	store := task.NewStore(storage, task.WithKey(cfg.Storage.Key))
	if _, err := store.Load(); err != nil {
		log.Fatal(err)
	}

	if *list {
		view, err := parseView(*filterState, *sortState, *sortDeadline)
		if err != nil {
			log.Fatal(err)
		}
		printTasks(os.Stdout, view.Apply(store.Tasks()))
		return
	}

	// Create model
	model, err := tui.New(store, storage, cfg.UI.ColorScheme)
	if err != nil {
		log.Fatal(err)
	}

	// Start the program
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// writeDefaultConfig saves cfg to the standard config location unless a file
// is already there. It returns the path written, or "" when nothing was.
func writeDefaultConfig(cfg *config.Config) (string, error) {
	configPath, err := config.DefaultPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(configPath); err == nil {
		return "", nil
	}
	if err := cfg.Save(); err != nil {
		return "", err
	}
	return configPath, nil
}

// createFixtures initializes a sqlite database at dbPath holding sample tasks
func createFixtures(dbPath, key string) error {
	if err := sqlite.Initialize(dbPath); err != nil {
		return fmt.Errorf("initializing fixtures database: %w", err)
	}

	db, err := sqlite.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening fixtures database: %w", err)
	}
	defer db.Close()

	store := task.NewStore(db, task.WithKey(key))
	if err := store.Persist(task.Fixtures(time.Now())); err != nil {
		return fmt.Errorf("writing fixtures: %w", err)
	}
	return nil
}

func parseView(filterState, sortState, sortDeadline string) (task.View, error) {
	var v task.View

	filter, err := task.ParseState(filterState)
	if err != nil {
		return v, err
	}
	last, err := task.ParseState(sortState)
	if err != nil {
		return v, err
	}
	deadline, err := task.ParseDeadlineSort(sortDeadline)
	if err != nil {
		return v, err
	}

	return v.WithFilterState(filter).WithSortState(last).WithSortDeadline(deadline), nil
}

func printTasks(w io.Writer, tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "You have no tasks")
		return
	}

	for _, t := range tasks {
		state := string(t.State)
		if state == "" {
			state = "-"
		}
		deadline := t.Deadline
		if deadline == "" {
			deadline = "-"
		}
		fmt.Fprintf(w, "%-16s %-10s %s\n", state, deadline, t.Title)
		fmt.Fprintf(w, "    %s\n", t.SummaryText())
	}
}
