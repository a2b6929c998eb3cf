package scheduler

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"time"

	"idlewatch/internal/config"
	"idlewatch/internal/database"
	"idlewatch/internal/models"
	"idlewatch/pkg/sensor"
)

// Service drives the idle timers: every poll interval it samples the idle
// duration, consults the pre-timer modules for due timers, fires commands
// and records a sample. Timer state lives in memory only; the sensing core
// stays stateless.
type Service struct {
	config   *config.Config
	repo     *database.Repository
	sensor   sensor.Sensor
	modules  []Module
	stopChan chan struct{}
	running  bool

	// runCommand is swappable for tests.
	runCommand func(command string) error

	fired      map[string]bool
	firedOrder []string
	prevIdle   time.Duration
}

func NewService(cfg *config.Config, repo *database.Repository, s sensor.Sensor, modules ...Module) *Service {
	return &Service{
		config:     cfg,
		repo:       repo,
		sensor:     s,
		modules:    modules,
		stopChan:   make(chan struct{}),
		runCommand: shellRun,
		fired:      make(map[string]bool),
	}
}

func shellRun(command string) error {
	return exec.Command("sh", "-c", command).Run()
}

func (s *Service) Start(ctx context.Context) error {
	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	s.running = true
	log.Printf("Starting scheduler with %v poll interval, %d timer(s), %d module(s)",
		s.config.Scheduler.PollInterval, len(s.config.Timers), len(s.modules))

	ticker := time.NewTicker(s.config.Scheduler.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped by context")
			s.running = false
			return ctx.Err()

		case <-s.stopChan:
			log.Println("Scheduler stopped")
			s.running = false
			return nil

		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Service) Stop() {
	if s.running {
		close(s.stopChan)
	}
}

func (s *Service) IsRunning() bool {
	return s.running
}

// tick runs one scheduler cycle.
func (s *Service) tick() {
	idle, err := s.sensor.IdleDuration()
	if err != nil {
		s.storeError("sensor", err)
		return
	}

	// Idle time shrinking means user input arrived since the last tick.
	if idle < s.prevIdle && len(s.firedOrder) > 0 {
		s.cancelFired()
	}
	s.prevIdle = idle

	var due []config.TimerConfig
	for _, timer := range s.config.Timers {
		if !s.fired[timer.Name] && idle >= timer.After {
			due = append(due, timer)
		}
	}

	sample := &models.IdleSample{
		Timestamp: time.Now(),
		IdleMs:    idle.Milliseconds(),
	}

	if len(due) > 0 {
		abortedBy, err := s.consultModules(due[0])
		if err != nil {
			// Inconclusive cycle: record nothing as fired, try again
			// on the next tick.
			s.storeError("module", err)
			return
		}

		if abortedBy != "" {
			sample.Suppressed = true
			sample.Fullscreen = abortedBy == ModuleNotWhenFullscreen
			log.Printf("Timer cycle suppressed by %s (idle %v)", abortedBy, idle)
		} else {
			for _, timer := range due {
				s.fire(timer)
			}
		}
	}

	if err := s.repo.CreateSample(sample); err != nil {
		log.Printf("Failed to record sample: %v", err)
	}
}

// consultModules runs every pre-timer check in registration order and
// returns the name of the first one that aborted, or "" to continue.
func (s *Service) consultModules(timer config.TimerConfig) (string, error) {
	info := TimerInfo{Name: timer.Name, After: timer.After, Command: timer.Command}
	for _, module := range s.modules {
		progress, err := module.PreTimer(info)
		if err != nil {
			return "", fmt.Errorf("pre-timer check %s: %w", module.Name(), err)
		}
		if progress == sensor.Abort {
			return module.Name(), nil
		}
	}
	return "", nil
}

func (s *Service) fire(timer config.TimerConfig) {
	log.Printf("Timer %s fired after %v idle, running %q", timer.Name, timer.After, timer.Command)

	if err := s.runCommand(timer.Command); err != nil {
		s.storeError("timer "+timer.Name, err)
	}

	s.fired[timer.Name] = true
	s.firedOrder = append(s.firedOrder, timer.Name)

	s.recordAction(timer.Name, timer.Command, models.ActionActivate)
}

// cancelFired runs the cancellers of fired timers in reverse firing order
// and resets the fired set for the next idle episode.
func (s *Service) cancelFired() {
	log.Printf("Activity resumed, cancelling %d fired timer(s)", len(s.firedOrder))

	for i := len(s.firedOrder) - 1; i >= 0; i-- {
		name := s.firedOrder[i]
		for _, timer := range s.config.Timers {
			if timer.Name != name || timer.Canceller == "" {
				continue
			}
			if err := s.runCommand(timer.Canceller); err != nil {
				s.storeError("canceller "+timer.Name, err)
			}
			s.recordAction(timer.Name, timer.Canceller, models.ActionCancel)
		}
	}

	s.fired = make(map[string]bool)
	s.firedOrder = nil
}

func (s *Service) recordAction(timerName, command, kind string) {
	event := &models.ActionEvent{
		Timestamp: time.Now(),
		TimerName: timerName,
		Command:   command,
		Kind:      kind,
	}
	if err := s.repo.CreateActionEvent(event); err != nil {
		log.Printf("Failed to record action event: %v", err)
	}
}

func (s *Service) storeError(component string, err error) {
	errorLog := &models.ErrorLog{
		Timestamp: time.Now(),
		Component: component,
		ErrorMsg:  err.Error(),
	}

	if dbErr := s.repo.CreateErrorLog(errorLog); dbErr != nil {
		log.Printf("Failed to store error in database: %v (original error: %v)", dbErr, err)
	} else {
		log.Printf("Error logged to database: %v", err)
	}
}
