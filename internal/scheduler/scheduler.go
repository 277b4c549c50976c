package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/ndmitriev/weathercast/internal/weather"
)

// Scheduler keeps the stored snapshot warm by re-running the refresh
// protocol on a fixed interval. Every run is a fresh invocation; a failed
// run is logged and left alone until the next tick.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	interval  time.Duration
	log       zerolog.Logger
}

func New(service *weather.Service, interval time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Start schedules the periodic refresh and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		s.log.Debug().Msg("running weather refresh job")
		s.service.Refresh(ctx, &logPresenter{log: s.log})
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// logPresenter receives background refresh outcomes; the snapshot itself is
// persisted by the service, so outcomes only need logging here.
type logPresenter struct {
	log zerolog.Logger
}

func (p *logPresenter) PresentWeather(snapshot weather.WeatherSnapshot) {
	p.log.Info().Str("city", snapshot.City).Msg("background refresh succeeded")
}

func (p *logPresenter) PresentError(message string) {
	p.log.Warn().Str("message", message).Msg("background refresh failed")
}

func (p *logPresenter) PresentLocationDenied() {
	p.log.Warn().Msg("background refresh skipped: location access denied")
}

func (p *logPresenter) SetLoading(bool) {}
