package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"idlewatch/internal/config"
	"idlewatch/internal/daemon"
	"idlewatch/internal/database"
	"idlewatch/internal/reporter"
	"idlewatch/internal/scheduler"
	"idlewatch/internal/web"
	"idlewatch/pkg/detector"
	"idlewatch/pkg/integrations/logind"
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
	case "start":
		startDaemon(false)
	case "serve":
		startDaemon(true)
	case "stop":
		stopDaemon()
	case "status":
		showStatus()
	case "report":
		generateReport()
	case "lock":
		lockSession()
	case "suspend":
		suspendMachine()
	case "clear":
		clearDatabase()
	case "version":
		fmt.Printf("idlewatch version %s\n", version)
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
	fmt.Printf(`idlewatch - X11 idle timer with fullscreen suppression

Usage:
  idlewatch <command> [options]

Commands:
  start              Start the idle timer daemon
  serve              Start daemon with web API server
  stop               Stop the daemon
  status             Show daemon status, idle time and fullscreen state
  report [period]    Generate idle report (period: day, week, month)
  lock               Lock the session via logind
  suspend            Suspend the machine via logind
  clear              Clear all recorded samples and events
  version            Show version information
  help               Show this help message

Examples:
  idlewatch start
  idlewatch status
  idlewatch report week
  idlewatch stop

Configuration:
  File: ~/.config/idlewatch/config.toml (timers, exception lists)

Environment Variables:
  IDLEWATCH_CONFIG           Config file path
  IDLEWATCH_DB_PATH          Database file path
  IDLEWATCH_POLL_INTERVAL    Poll interval in seconds
  IDLEWATCH_PID_FILE         PID file path
  IDLEWATCH_EXC_INSTANCE     Comma-separated WM_CLASS instance exceptions
  IDLEWATCH_EXC_CLASS        Comma-separated WM_CLASS class exceptions
  IDLEWATCH_EXC_TITLE        Comma-separated window title exceptions
  IDLEWATCH_SKIP_WHEN_LOCKED Hold timers while session is locked (true/false)

Version: %s
`, version)
}

func startDaemon(withWeb bool) {
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

	if os.Getenv("IDLEWATCH_DAEMON_CHILD") != "1" {
		daemonize(withWeb)
		return
	}

	runDaemon(cfg, dm, withWeb)
}

func runDaemon(cfg *config.Config, dm *daemon.Daemon, withWeb bool) {
	logPath := fmt.Sprintf("/tmp/idlewatch-%d.log", os.Getuid())
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

	sense, err := detector.New()
	if err != nil {
		log.Fatalf("Failed to initialize idle sensor: %v", err)
	}
	defer sense.Close()

	log.Printf("Idle sensor initialized: %s", sense.DisplayServer())

	modules := []scheduler.Module{
		scheduler.NewNotWhenFullscreen(sense, cfg.Exceptions),
	}
	if cfg.Scheduler.SkipWhenLocked {
		if manager, err := logind.Connect(); err != nil {
			log.Printf("logind unavailable, lock suppression disabled: %v", err)
		} else {
			defer manager.Close()
			modules = append(modules, scheduler.NewNotWhenLocked(manager))
		}
	}

	if err := dm.WritePID(); err != nil {
		log.Fatalf("Failed to write PID file: %v", err)
	}
	defer dm.RemovePID()

	repo := database.NewRepository(db)
	schedulerSvc := scheduler.NewService(cfg, repo, sense, modules...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var webServer *web.Server
	if withWeb {
		webServer = web.NewServer(cfg, repo, sense)
		go func() {
			if err := webServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("Web server error: %v", err)
			}
		}()
		log.Printf("Web API available at: http://%s", webServer.GetAddress())
	}

	go func() {
		if err := schedulerSvc.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Scheduler error: %v", err)
			cancel()
		}
	}()

	log.Println("Starting idlewatch daemon...")
	log.Printf("Configuration:\n%s", cfg.String())

	<-sigChan
	log.Println("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	cancel()
	schedulerSvc.Stop()

	if webServer != nil {
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down web server: %v", err)
		}
	}

	log.Println("Daemon stopped successfully")
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
		fmt.Printf("Poll Interval: %v\n", cfg.Scheduler.PollInterval)
		fmt.Printf("Database: %s\n", cfg.Database.Path)
	}

	sense, err := detector.New()
	if err != nil {
		fmt.Printf("\nCould not probe session: %v\n", err)
		return
	}
	defer sense.Close()

	fmt.Printf("\nSession:\n")
	fmt.Printf("  Display: %s\n", sense.DisplayServer())

	if idle, err := sense.IdleDuration(); err == nil {
		fmt.Printf("  Idle: %v\n", idle.Round(time.Second))
	} else {
		fmt.Printf("  Idle: unavailable (%v)\n", err)
	}

	if fullscreen, err := sense.AnyFullscreen(cfg.Exceptions); err == nil {
		fmt.Printf("  Fullscreen window: %v\n", fullscreen)
	} else {
		fmt.Printf("  Fullscreen window: unavailable (%v)\n", err)
	}

	if manager, err := logind.Connect(); err == nil {
		defer manager.Close()
		if locked, err := manager.SessionLocked(); err == nil {
			fmt.Printf("  Locked: %v\n", locked)
		}
	}
}

func generateReport() {
	periodType := "day"
	if len(os.Args) > 2 {
		periodType = os.Args[2]
	}

	cfg := config.New()

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)
	rep := reporter.New(cfg, repo)

	jsonOutput := false
	if len(os.Args) > 3 && os.Args[3] == "--json" {
		jsonOutput = true
	}

	report, err := rep.GenerateReport(periodType)
	if err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}

	if jsonOutput {
		jsonStr, err := rep.FormatReportJSON(report)
		if err != nil {
			log.Fatalf("Failed to format JSON: %v", err)
		}
		fmt.Println(jsonStr)
	} else {
		fmt.Println(rep.FormatReportText(report))
	}
}

func lockSession() {
	manager, err := logind.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to logind: %v", err)
	}
	defer manager.Close()

	if err := manager.LockSession(); err != nil {
		log.Fatalf("Failed to lock session: %v", err)
	}
}

func suspendMachine() {
	manager, err := logind.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to logind: %v", err)
	}
	defer manager.Close()

	if err := manager.Suspend(); err != nil {
		log.Fatalf("Failed to suspend: %v", err)
	}
}

func clearDatabase() {
	cfg := config.New()

	fmt.Print("This will delete all recorded samples and events. Are you sure? (yes/no): ")
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

	repo := database.NewRepository(db)
	if err := repo.Clear(); err != nil {
		log.Fatalf("Failed to clear database: %v", err)
	}

	fmt.Println("Database cleared successfully")
}

func daemonize(withWeb bool) {
	env := os.Environ()
	env = append(env, "IDLEWATCH_DAEMON_CHILD=1")

	args := os.Args

	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil},
		Sys: &syscall.SysProcAttr{
			Setsid: true,
		},
	}

	process, err := os.StartProcess(args[0], args, procAttr)
	if err != nil {
		log.Fatalf("Failed to start daemon process: %v", err)
	}

	logPath := fmt.Sprintf("/tmp/idlewatch-%d.log", os.Getuid())
	fmt.Printf("Daemon started successfully (PID: %d)\n", process.Pid)
	if withWeb {
		fmt.Println("Web API enabled")
	}
	fmt.Printf("Logs: %s\n", logPath)
}
