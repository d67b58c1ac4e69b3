// Package tracker samples the focused window on a fixed interval, classifies
// it into an activity category, and persists the resulting snapshots.
package tracker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/goaltrack/goaltrack/internal/config"
	"github.com/goaltrack/goaltrack/internal/database"
	"github.com/goaltrack/goaltrack/internal/models"
	"github.com/goaltrack/goaltrack/internal/notify"
	"github.com/goaltrack/goaltrack/pkg/watch"
)

type Service struct {
	config   *config.Config
	store    *database.ActivityStore
	watcher  watch.Watcher
	notifier *notify.Notifier
	stopChan chan struct{}
	running  bool

	// current is the open snapshot row being extended while the focused
	// category stays the same.
	current *models.ActivitySnapshot
}

func NewService(cfg *config.Config, store *database.ActivityStore, watcher watch.Watcher, notifier *notify.Notifier) *Service {
	return &Service{
		config:   cfg,
		store:    store,
		watcher:  watcher,
		notifier: notifier,
		stopChan: make(chan struct{}),
		running:  false,
	}
}

func (s *Service) Start(ctx context.Context) error {
	if s.running {
		return fmt.Errorf("tracker is already running")
	}

	s.running = true
	log.Printf("Starting tracker with %v poll interval", s.config.Tracker.PollInterval)

	s.resume()

	ticker := time.NewTicker(s.config.Tracker.PollInterval)
	defer ticker.Stop()

	if err := s.trackOnce(time.Now()); err != nil {
		log.Printf("Initial track failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Println("Tracker stopped by context")
			s.running = false
			return ctx.Err()

		case <-s.stopChan:
			log.Println("Tracker stopped")
			s.running = false
			return nil

		case <-ticker.C:
			if err := s.trackOnce(time.Now()); err != nil {
				log.Printf("Track failed: %v", err)
			}
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

// resume picks up the latest stored snapshot so a quick daemon restart does
// not split one continuous stretch into two.
func (s *Service) resume() {
	latest, err := s.store.GetLatest()
	if err != nil {
		log.Printf("Could not load latest snapshot: %v", err)
		return
	}
	if latest != nil && time.Since(latest.End) < 2*s.config.Tracker.PollInterval {
		s.current = latest
	}
}

// trackOnce samples the focused window at now and folds it into the open
// snapshot, or closes it and starts a new one on a category change.
func (s *Service) trackOnce(now time.Time) error {
	sample, err := s.watcher.Sample()
	if err != nil {
		return fmt.Errorf("failed to sample focused window: %w", err)
	}

	category := Classify(sample.AppName, sample.WindowTitle)

	// Each sample accounts for one poll interval; a stretch of n samples
	// of the same category spans n intervals.
	end := now.Add(s.config.Tracker.PollInterval)

	if s.current != nil &&
		s.current.Category == string(category) &&
		now.Sub(s.current.End) < s.config.Tracker.PollInterval {
		s.current.End = end
		if err := s.store.UpdateEnd(s.current.ID, end); err != nil {
			return fmt.Errorf("failed to extend snapshot: %w", err)
		}
		return nil
	}

	snapshot := &models.ActivitySnapshot{
		Category:    string(category),
		AppName:     sample.AppName,
		WindowTitle: sample.WindowTitle,
		Start:       now,
		End:         end,
	}
	if err := s.store.Create(snapshot); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	s.current = snapshot

	log.Printf("Tracked: %s (%s)", sample.AppName, category)
	if s.notifier != nil {
		s.notifier.Publish(category, now)
	}
	return nil
}
