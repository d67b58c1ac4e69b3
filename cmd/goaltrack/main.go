package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/goaltrack/goaltrack/internal/aggregate"
	"github.com/goaltrack/goaltrack/internal/config"
	"github.com/goaltrack/goaltrack/internal/daemon"
	"github.com/goaltrack/goaltrack/internal/database"
	"github.com/goaltrack/goaltrack/internal/engine"
	"github.com/goaltrack/goaltrack/internal/models"
	"github.com/goaltrack/goaltrack/internal/notify"
	"github.com/goaltrack/goaltrack/internal/present"
	"github.com/goaltrack/goaltrack/internal/tracker"
	"github.com/goaltrack/goaltrack/internal/web"
	"github.com/goaltrack/goaltrack/pkg/watch"
	"github.com/goaltrack/goaltrack/pkg/watch/x11"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "track":
		trackDaemon(false)
	case "serve":
		trackDaemon(true)
	case "stop":
		stopDaemon()
	case "status":
		showStatus()
	case "check":
		checkGoals()
	case "rules":
		manageRules()
	case "clear":
		clearDatabase()
	case "version":
		fmt.Printf("goaltrack version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`goaltrack - Personal activity goal tracker

Usage:
  goaltrack <command> [options]

Commands:
  track                Start the tracking daemon
  serve                Start daemon with web API and periodic goal checks
  stop                 Stop the tracking daemon
  status               Show daemon status and current activity
  check [--json]       Check all goal rules against recorded activity
  rules list           List stored goal rules
  rules add <title> <kind> <category> <span> <cmp> <threshold>
                       Add a goal rule (kind: time_spent_on, switches_to)
  rules del <id>       Delete a goal rule
  clear                Clear all recorded activity from the database
  version              Show version information
  help                 Show this help message

Examples:
  goaltrack track
  goaltrack rules add "Deep work" time_spent_on development week ">=" 20
  goaltrack rules add "Less chat" switches_to instant_messaging today "<" 10
  goaltrack check
  goaltrack stop

Environment Variables:
  GOALTRACK_DB_PATH         Database file path
  GOALTRACK_POLL_INTERVAL   Window poll interval in seconds
  GOALTRACK_MIN_SWITCH_GAP  Gap (seconds) absorbed into one activity stretch
  GOALTRACK_CHECK_INTERVAL  Goal re-check interval in seconds (serve mode)
  GOALTRACK_PID_FILE        PID file path
  GOALTRACK_WEB_HOST        Web API host
  GOALTRACK_WEB_PORT        Web API port

Version: %s
`, version)
}

func trackDaemon(withWeb bool) {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Daemon is already running (PID: %d)", pid)
	}

	if os.Getenv("GOALTRACK_DAEMON_CHILD") != "1" {
		daemonize(withWeb)
		return
	}

	runDaemon(cfg, dm, withWeb)
}

func runDaemon(cfg *config.Config, dm *daemon.Daemon, withWeb bool) {
	logPath := fmt.Sprintf("/tmp/goaltrack-%d.log", os.Getuid())
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	watcher, err := newWatcher()
	if err != nil {
		log.Fatalf("Failed to initialize window watcher: %v", err)
	}
	defer watcher.Close()

	if err := dm.WritePID(); err != nil {
		log.Fatalf("Failed to write PID file: %v", err)
	}
	defer dm.RemovePID()

	activityStore := database.NewActivityStore(db)
	ruleStore := database.NewRuleStore(db)
	notifier := notify.New()
	trackerSvc := tracker.NewService(cfg, activityStore, watcher, notifier)

	aggregator := aggregate.NewAggregator(activityStore, cfg.Engine.MinimumSwitchGap)
	cache := aggregate.NewCache()
	presenter := present.NewTextPresenter(log.Writer())
	eng := engine.New(aggregator, cache, notifier, presenter)

	ruleSet, err := ruleStore.LoadRules()
	if err != nil {
		log.Printf("Failed to load goal rules: %v", err)
	}
	eng.StartSession(ruleSet)
	defer eng.EndSession()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var webServer *web.Server
	if withWeb {
		webServer = web.NewServer(cfg, activityStore, ruleStore)
		go func() {
			if err := webServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("Web server error: %v", err)
			}
		}()
	}

	go func() {
		if err := trackerSvc.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Tracker error: %v", err)
			cancel()
		}
	}()

	// Periodic goal checking. Each tick re-reads the rule set so rules
	// added through the web API are picked up without a restart.
	go func() {
		ticker := time.NewTicker(cfg.Engine.CheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				ruleSet, err := ruleStore.LoadRules()
				if err != nil {
					log.Printf("Failed to load goal rules: %v", err)
					continue
				}
				cache.Invalidate()
				if _, err := eng.CheckAll(ruleSet, now); err != nil {
					log.Printf("Goal check failed: %v", err)
				}
			}
		}
	}()

	log.Println("Starting goaltrack daemon...")
	log.Printf("Configuration:\n%s", cfg.String())

	<-sigChan
	log.Println("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	cancel()
	trackerSvc.Stop()
	if webServer != nil {
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down web server: %v", err)
		}
	}

	log.Println("Daemon stopped successfully")
}

func newWatcher() (watch.Watcher, error) {
	if server := watch.DetectDisplayServer(); server != "x11" {
		return nil, fmt.Errorf("unsupported display server %q (only x11 is supported)", server)
	}
	return x11.NewWatcher()
}

func stopDaemon() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if !running {
		fmt.Println("Daemon is not running")
		return
	}

	fmt.Printf("Stopping daemon (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		log.Fatalf("Failed to stop daemon: %v", err)
	}
	fmt.Println("Daemon stopped successfully")
}

func showStatus() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if !running {
		fmt.Println("Status: Not running")
	} else {
		fmt.Printf("Status: Running (PID: %d)\n", pid)
		fmt.Printf("Poll Interval: %v\n", cfg.Tracker.PollInterval)
		fmt.Printf("Database: %s\n", cfg.Database.Path)
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		fmt.Printf("\nCould not open database: %v\n", err)
		return
	}
	defer db.Close()

	latest, err := database.NewActivityStore(db).GetLatest()
	if err == nil && latest != nil {
		fmt.Printf("\nLatest Activity:\n")
		fmt.Printf("  Category: %s\n", models.Category(latest.Category).DisplayName())
		fmt.Printf("  App: %s\n", latest.AppName)
		fmt.Printf("  Title: %s\n", latest.WindowTitle)
		fmt.Printf("  Since: %s\n", latest.Start.Format("2006-01-02 15:04:05"))
	}
}

func checkGoals() {
	cfg := config.New()

	jsonOutput := false
	for _, arg := range os.Args[2:] {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	activityStore := database.NewActivityStore(db)
	ruleStore := database.NewRuleStore(db)

	ruleSet, err := ruleStore.LoadRules()
	if err != nil {
		log.Fatalf("Failed to load goal rules: %v", err)
	}

	var presenter present.Presenter = present.NewTextPresenter(os.Stdout)
	if jsonOutput {
		presenter = present.NewJSONPresenter(os.Stdout)
	}

	aggregator := aggregate.NewAggregator(activityStore, cfg.Engine.MinimumSwitchGap)
	eng := engine.New(aggregator, aggregate.NewCache(), nil, presenter)

	if _, err := eng.CheckAll(ruleSet, time.Now()); err != nil {
		log.Fatalf("Goal check failed: %v", err)
	}
}

func manageRules() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: goaltrack rules <list|add|del> ...")
		os.Exit(1)
	}

	cfg := config.New()
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	ruleStore := database.NewRuleStore(db)

	switch os.Args[2] {
	case "list":
		listRules(ruleStore)
	case "add":
		addRule(ruleStore, os.Args[3:])
	case "del", "delete":
		deleteRule(ruleStore, os.Args[3:])
	default:
		fmt.Printf("Unknown rules command: %s\n", os.Args[2])
		os.Exit(1)
	}
}

func listRules(store *database.RuleStore) {
	ruleSet, err := store.LoadRules()
	if err != nil {
		log.Fatalf("Failed to load goal rules: %v", err)
	}
	if len(ruleSet) == 0 {
		fmt.Println("No goal rules defined.")
		return
	}
	for _, rule := range ruleSet {
		fmt.Printf("  [%d] %s\n", rule.ID, rule)
	}
}

func addRule(store *database.RuleStore, args []string) {
	if len(args) != 6 {
		fmt.Println("Usage: goaltrack rules add <title> <kind> <category> <span> <cmp> <threshold>")
		os.Exit(1)
	}

	kind, ok := models.ParseGoalKind(args[1])
	if !ok {
		log.Fatalf("Unknown goal kind: %q (valid: time_spent_on, switches_to)", args[1])
	}
	category, ok := models.ParseCategory(args[2])
	if !ok {
		log.Fatalf("Unknown category: %q", args[2])
	}
	span, ok := models.ParseTimeSpan(args[3])
	if !ok {
		log.Fatalf("Unknown time span: %q", args[3])
	}
	comparator, ok := models.ParseComparator(args[4])
	if !ok {
		log.Fatalf("Unknown comparator: %q (valid: < <= = >= >)", args[4])
	}
	threshold, err := strconv.ParseFloat(args[5], 64)
	if err != nil {
		log.Fatalf("Invalid threshold: %q", args[5])
	}

	row := &models.GoalRule{
		Title:      args[0],
		Kind:       string(kind),
		Category:   string(category),
		TimeSpan:   string(span),
		Comparator: string(comparator),
		Threshold:  threshold,
	}
	if err := store.SaveRule(row); err != nil {
		log.Fatalf("Failed to save rule: %v", err)
	}
	fmt.Printf("Rule saved with ID %d\n", row.ID)
}

func deleteRule(store *database.RuleStore, args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: goaltrack rules del <id>")
		os.Exit(1)
	}
	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		log.Fatalf("Invalid rule id: %q", args[0])
	}
	if err := store.DeleteRule(uint(id)); err != nil {
		log.Fatalf("Failed to delete rule: %v", err)
	}
	fmt.Printf("Rule %d deleted\n", id)
}

func clearDatabase() {
	cfg := config.New()
	fmt.Print("This will delete all recorded activity. Are you sure? (yes/no): ")
	var response string
	fmt.Scanln(&response)
	if response != "yes" && response != "y" {
		fmt.Println("Operation cancelled")
		return
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.NewActivityStore(db).Clear(); err != nil {
		log.Fatalf("Failed to clear database: %v", err)
	}
	fmt.Println("Database cleared successfully")
}

func daemonize(withWeb bool) {
	env := os.Environ()
	env = append(env, "GOALTRACK_DAEMON_CHILD=1")
	args := os.Args
	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil},
		Sys:   &syscall.SysProcAttr{Setsid: true},
	}
	process, err := os.StartProcess(args[0], args, procAttr)
	if err != nil {
		log.Fatalf("Failed to start daemon process: %v", err)
	}

	logPath := fmt.Sprintf("/tmp/goaltrack-%d.log", os.Getuid())
	fmt.Printf("Daemon started successfully (PID: %d)\n", process.Pid)
	if withWeb {
		cfg := config.New()
		fmt.Printf("Web API available at: http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	}
	fmt.Printf("Logs: %s\n", logPath)
}
