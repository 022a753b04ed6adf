// Package service provides the dashboard service that implements the
// dependencies required by the HTTP API: it owns the loaded results table and
// runs the three output callbacks against it.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/okian/medalboard/internal/adapters/render"
	"github.com/okian/medalboard/internal/adapters/repository"
	"github.com/okian/medalboard/internal/domain/chart"
	"github.com/okian/medalboard/internal/domain/medals"
	"github.com/okian/medalboard/internal/domain/view"
	"github.com/okian/medalboard/pkg/logger"
	"github.com/okian/medalboard/pkg/metrics"
)

// Output ids, shared with the view description.
const (
	OutputYearlyChart = view.YearlyChart
	OutputMedalText   = view.MedalText
	OutputTopAthletes = view.TopAthletes
)

// Charts exportable as PNG.
const (
	ChartYearly      = "yearly"
	ChartTopAthletes = "top-athletes"
)

// Sentinel kinds for service errors.
var (
	ErrNoDataset      = errors.New("dataset not loaded")
	ErrCallbackFailed = errors.New("callback failed")
	ErrUnknownChart   = errors.New("unknown chart")
)

// Selection is the current value of the three input controls.
type Selection struct {
	Years     medals.Window
	Countries []string
	Sex       medals.Sex
}

// Update carries every output recomputed for one selection. An output that
// failed is nil and its error message is listed in Errors.
type Update struct {
	YearlyChart *chart.Figure     `json:"yearly_chart"`
	MedalText   *string           `json:"medal_text"`
	TopAthletes *chart.Figure     `json:"top_athletes"`
	Errors      map[string]string `json:"errors,omitempty"`
}

type binding struct {
	output string
	run    func(ctx context.Context, sel Selection, u *Update) (rows int, err error)
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	dataset  *medals.Dataset
	source   repository.Source
	renderer *render.Renderer
	bindings []binding

	topAthletes int
	cycleOffset int
	settings    view.Settings

	started  bool
	loadedAt time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataset injects an already loaded table. Start will not reload it.
func WithDataset(ds *medals.Dataset) Option {
	return func(s *Service) {
		if ds != nil {
			s.dataset = ds
		}
	}
}

// WithSource sets where Start loads the table from.
func WithSource(src repository.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTopAthletes caps the number of bars in the best athletes chart.
func WithTopAthletes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topAthletes = n
		}
	}
}

// WithCycleOffset sets how many years past the window the medal total reaches.
func WithCycleOffset(years int) Option {
	return func(s *Service) {
		if years >= 0 {
			s.cycleOffset = years
		}
	}
}

// WithViewSettings configures how the page controls are seeded.
func WithViewSettings(vs view.Settings) Option {
	return func(s *Service) {
		s.settings = vs
	}
}

// WithRenderer sets the PNG renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		topAthletes: 10,
		cycleOffset: 4,
		settings:    view.DefaultSettings(),
		renderer:    render.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.bindings = []binding{
		{output: OutputYearlyChart, run: s.runYearly},
		{output: OutputMedalText, run: s.runMedalText},
		{output: OutputTopAthletes, run: s.runTopAthletes},
	}
	return s
}

// Start loads the table if none was injected. A load failure is fatal for
// the caller: the dashboard cannot run without data.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.dataset == nil {
		if s.source == nil {
			return ErrNoDataset
		}
		start := time.Now()
		ds, err := s.source.Load(ctx)
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		s.dataset = ds
		metrics.UpdateDataset(ds.Len(), len(ds.Countries()), float64(time.Since(start).Milliseconds()))
	} else {
		metrics.UpdateDataset(s.dataset.Len(), len(s.dataset.Countries()), 0)
	}

	span := s.dataset.YearSpan()
	s.started = true
	s.loadedAt = time.Now()
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("rows", s.dataset.Len()),
		logger.Int("countries", len(s.dataset.Countries())),
		logger.Int("year_min", span.Min),
		logger.Int("year_max", span.Max),
	)
	return nil
}

// Stop marks the service stopped. The table stays readable.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

func (s *Service) data() (*medals.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return nil, ErrNoDataset
	}
	return s.dataset, nil
}

// Layout describes the dashboard page for the loaded table.
func (s *Service) Layout(_ context.Context) (view.Description, error) {
	ds, err := s.data()
	if err != nil {
		return view.Description{}, err
	}
	return view.Build(ds, s.settings), nil
}

// YearlyChart recomputes the per-year medal and athlete chart.
func (s *Service) YearlyChart(ctx context.Context, sel Selection) (chart.Figure, error) {
	var u Update
	if err := s.call(ctx, s.bindings[0], sel, &u); err != nil {
		return chart.Figure{}, err
	}
	return *u.YearlyChart, nil
}

// MedalTotal recomputes the total medal readout.
func (s *Service) MedalTotal(ctx context.Context, sel Selection) (int, error) {
	var u Update
	if err := s.call(ctx, s.bindings[1], sel, &u); err != nil {
		return 0, err
	}
	return strconv.Atoi(*u.MedalText)
}

// TopAthletes recomputes the best athletes chart.
func (s *Service) TopAthletes(ctx context.Context, sel Selection) (chart.Figure, error) {
	var u Update
	if err := s.call(ctx, s.bindings[2], sel, &u); err != nil {
		return chart.Figure{}, err
	}
	return *u.TopAthletes, nil
}

// Update runs every callback for sel. Callbacks are independent: one failing
// leaves the others intact.
func (s *Service) Update(ctx context.Context, sel Selection) Update {
	var u Update
	for _, b := range s.bindings {
		if err := s.call(ctx, b, sel, &u); err != nil {
			if u.Errors == nil {
				u.Errors = make(map[string]string)
			}
			u.Errors[b.output] = err.Error()
		}
	}
	return u
}

// ChartPNG renders one of the bar charts for sel as a PNG image.
func (s *Service) ChartPNG(ctx context.Context, name string, sel Selection, w io.Writer) error {
	var (
		fig chart.Figure
		err error
	)
	switch name {
	case ChartYearly:
		fig, err = s.YearlyChart(ctx, sel)
	case ChartTopAthletes:
		fig, err = s.TopAthletes(ctx, sel)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	if err != nil {
		return err
	}
	if err := s.renderer.PNG(fig, w); err != nil {
		return err
	}
	metrics.RecordChartRender(name)
	return nil
}

// call runs one binding, turning panics into ErrCallbackFailed so a broken
// output never takes the others down.
func (s *Service) call(ctx context.Context, b binding, sel Selection, u *Update) (err error) {
	start := time.Now()
	rows := 0
	log := s.log().With(logger.String("output", b.output))
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrCallbackFailed, b.output, r)
			log.Error(ctx, "callback panicked",
				logger.Any("panic", r),
				logger.String("stack", string(debug.Stack())),
			)
		}
		ms := float64(time.Since(start).Microseconds()) / 1000
		if err != nil {
			metrics.RecordCallbackFailure(b.output)
			return
		}
		metrics.RecordCallback(b.output, ms, rows)
		log.Debug(ctx, "callback done",
			logger.Int("rows", rows),
			logger.Float64("duration_ms", ms),
		)
	}()

	rows, err = b.run(ctx, sel, u)
	return err
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get()
	}
	return l
}

// runYearly plots every year of the table for the selected countries and sex;
// the window only decides which bars are highlighted. A reversed window
// matches nothing.
func (s *Service) runYearly(_ context.Context, sel Selection, u *Update) (int, error) {
	ds, err := s.data()
	if err != nil {
		return 0, err
	}
	rows := []medals.Record{}
	if !sel.Years.Empty() {
		rows = medals.Filter(ds, sel.Countries, sel.Sex, ds.YearSpan())
	}
	fig := chart.YearlyFigure(medals.YearlyCounts(rows), sel.Years)
	u.YearlyChart = &fig
	return len(rows), nil
}

// runMedalText counts medals from the window's first year through one
// Olympic cycle past its last year.
func (s *Service) runMedalText(_ context.Context, sel Selection, u *Update) (int, error) {
	ds, err := s.data()
	if err != nil {
		return 0, err
	}
	rows := medals.Filter(ds, sel.Countries, sel.Sex, sel.Years.Extend(s.cycleOffset))
	text := strconv.Itoa(medals.TotalMedals(rows, sel.Years, s.cycleOffset))
	u.MedalText = &text
	return len(rows), nil
}

// runTopAthletes ranks athletes by medals won inside the window.
func (s *Service) runTopAthletes(_ context.Context, sel Selection, u *Update) (int, error) {
	ds, err := s.data()
	if err != nil {
		return 0, err
	}
	rows := medals.Filter(ds, sel.Countries, sel.Sex, sel.Years)
	fig := chart.TopAthletesFigure(medals.TopAthletes(rows, s.topAthletes))
	u.TopAthletes = &fig
	return len(rows), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"topAthletes": s.topAthletes,
		"cycleOffset": s.cycleOffset,
	}
	if s.dataset != nil {
		span := s.dataset.YearSpan()
		stats["rows"] = s.dataset.Len()
		stats["countries"] = len(s.dataset.Countries())
		stats["years"] = len(s.dataset.Years())
		stats["yearMin"] = span.Min
		stats["yearMax"] = span.Max
	}
	if !s.loadedAt.IsZero() {
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
	}
	return stats
}
