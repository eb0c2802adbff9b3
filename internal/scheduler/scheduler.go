package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/farm-insight/internal/advisor"
	"github.com/i474232898/farm-insight/internal/geo"
)

// Warmer is the part of the facade the scheduler drives.
type Warmer interface {
	Weather(ctx context.Context, locator geo.Locator) advisor.WeatherReport
	Market(ctx context.Context, locator geo.Locator) advisor.MarketReport
}

// Scheduler periodically refreshes both caches for the home location.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Warmer
	home      *geo.Fix
	interval  time.Duration
	log       logrus.FieldLogger
}

// New creates a new Scheduler. A nil home disables it.
func New(home *geo.Fix, interval time.Duration, service Warmer, log logrus.FieldLogger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		service:   service,
		home:      home,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.home == nil {
		s.log.Info("scheduler: no home location configured; cache warming disabled")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.warm(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) warm(ctx context.Context) {
	locator := geo.Static(*s.home)
	log := s.log.WithField("fix", s.home.String())
	log.Debug("scheduler: warming caches")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		r := s.service.Weather(ctx, locator)
		log.WithFields(logrus.Fields{
			"kind":   "weather",
			"status": r.Status,
			"reason": r.Reason,
		}).Info("scheduler: cache warmed")
	}()
	go func() {
		defer wg.Done()
		r := s.service.Market(ctx, locator)
		log.WithFields(logrus.Fields{
			"kind":   "market",
			"status": r.Status,
			"reason": r.Reason,
		}).Info("scheduler: cache warmed")
	}()
	wg.Wait()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
