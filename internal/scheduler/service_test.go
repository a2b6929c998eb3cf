package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	"idlewatch/internal/config"
	"idlewatch/internal/database"
)

func testRepo(t *testing.T) *database.Repository {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Initialize(); err != nil {
		t.Fatalf("initialize test database: %v", err)
	}

	return database.NewRepository(db)
}

func testConfig(timers ...config.TimerConfig) *config.Config {
	cfg := config.Default()
	cfg.Timers = timers
	return cfg
}

func newTestService(t *testing.T, stub *stubSensor, cfg *config.Config, modules ...Module) (*Service, *[]string) {
	t.Helper()

	svc := NewService(cfg, testRepo(t), stub, modules...)

	var commands []string
	svc.runCommand = func(command string) error {
		commands = append(commands, command)
		return nil
	}

	return svc, &commands
}

func TestTickFiresDueTimer(t *testing.T) {
	cfg := testConfig(
		config.TimerConfig{Name: "dim", After: time.Minute, Command: "dim-cmd"},
		config.TimerConfig{Name: "lock", After: 5 * time.Minute, Command: "lock-cmd"},
	)
	stub := &stubSensor{idle: 2 * time.Minute}
	svc, commands := newTestService(t, stub, cfg)

	svc.tick()

	if len(*commands) != 1 || (*commands)[0] != "dim-cmd" {
		t.Errorf("commands = %v, want [dim-cmd]", *commands)
	}
	if !svc.fired["dim"] {
		t.Error("timer dim not marked fired")
	}
	if svc.fired["lock"] {
		t.Error("timer lock fired before its threshold")
	}

	// The same timer must not fire again within one idle episode.
	svc.tick()
	if len(*commands) != 1 {
		t.Errorf("timer fired twice: %v", *commands)
	}
}

func TestTickSuppressedByFullscreen(t *testing.T) {
	cfg := testConfig(config.TimerConfig{Name: "lock", After: time.Minute, Command: "lock-cmd"})
	stub := &stubSensor{idle: 2 * time.Minute, fullscreen: true}
	svc, commands := newTestService(t, stub, cfg, NewNotWhenFullscreen(stub, cfg.Exceptions))

	svc.tick()

	if len(*commands) != 0 {
		t.Errorf("commands = %v, want none while fullscreen", *commands)
	}
	if svc.fired["lock"] {
		t.Error("suppressed timer was marked fired")
	}

	sample, err := svc.repo.GetLatestSample()
	if err != nil {
		t.Fatalf("GetLatestSample() error: %v", err)
	}
	if sample == nil || !sample.Suppressed || !sample.Fullscreen {
		t.Errorf("sample = %+v, want suppressed fullscreen sample", sample)
	}

	// Fullscreen window closed: the timer fires on the next tick.
	stub.fullscreen = false
	svc.tick()
	if len(*commands) != 1 || (*commands)[0] != "lock-cmd" {
		t.Errorf("commands = %v, want [lock-cmd]", *commands)
	}
}

func TestActivityRunsCancellers(t *testing.T) {
	cfg := testConfig(
		config.TimerConfig{Name: "dim", After: time.Minute, Command: "dim-cmd", Canceller: "undim-cmd"},
		config.TimerConfig{Name: "lock", After: 2 * time.Minute, Command: "lock-cmd"},
	)
	stub := &stubSensor{idle: 90 * time.Second}
	svc, commands := newTestService(t, stub, cfg)

	svc.tick()
	stub.idle = 3 * time.Minute
	svc.tick()

	if len(*commands) != 2 {
		t.Fatalf("commands = %v, want both timers fired", *commands)
	}

	// User input: idle drops, cancellers run, fired state resets.
	stub.idle = time.Second
	svc.tick()

	if len(*commands) != 3 || (*commands)[2] != "undim-cmd" {
		t.Errorf("commands = %v, want undim-cmd appended", *commands)
	}
	if len(svc.fired) != 0 {
		t.Errorf("fired set not reset: %v", svc.fired)
	}

	// A new idle episode fires the timers again.
	stub.idle = 90 * time.Second
	svc.tick()
	if len(*commands) != 4 || (*commands)[3] != "dim-cmd" {
		t.Errorf("commands = %v, want dim-cmd fired in new episode", *commands)
	}
}

func TestModuleErrorSkipsCycle(t *testing.T) {
	cfg := testConfig(config.TimerConfig{Name: "lock", After: time.Minute, Command: "lock-cmd"})
	stub := &stubSensor{idle: 2 * time.Minute}
	locker := &stubLocker{err: errTest}
	svc, commands := newTestService(t, stub, cfg, NewNotWhenLocked(locker))

	svc.tick()

	if len(*commands) != 0 {
		t.Errorf("commands = %v, want none after module error", *commands)
	}
	if svc.fired["lock"] {
		t.Error("timer marked fired on an inconclusive cycle")
	}

	// The error is transient: the cycle succeeds once the module recovers.
	locker.err = nil
	svc.tick()
	if len(*commands) != 1 {
		t.Errorf("commands = %v, want [lock-cmd] after recovery", *commands)
	}
}

func TestTickRecordsSamples(t *testing.T) {
	cfg := testConfig()
	stub := &stubSensor{idle: 42 * time.Second}
	svc, _ := newTestService(t, stub, cfg)

	svc.tick()

	sample, err := svc.repo.GetLatestSample()
	if err != nil {
		t.Fatalf("GetLatestSample() error: %v", err)
	}
	if sample == nil {
		t.Fatal("no sample recorded")
	}
	if sample.IdleMs != 42000 {
		t.Errorf("IdleMs = %d, want 42000", sample.IdleMs)
	}
	if sample.Suppressed || sample.Fullscreen {
		t.Errorf("sample = %+v, want plain idle sample", sample)
	}
}
