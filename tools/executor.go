package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tripkit-ai/tripkit/llm"
	"github.com/tripkit-ai/tripkit/places"
	"github.com/tripkit-ai/tripkit/trip"
)

// PlaceSearcher finds one best place candidate for a query.
type PlaceSearcher interface {
	Find(ctx context.Context, q places.Query) (trip.PlaceResult, error)
}

// WeatherReporter fetches a forecast briefing for a destination.
type WeatherReporter interface {
	Forecast(ctx context.Context, destination, dates string) (string, error)
}

// Executor runs the tool calls of one turn. Independent searches fan
// out concurrently; results are reported in request order so that slot
// bookkeeping downstream stays deterministic.
type Executor struct {
	finder  PlaceSearcher
	weather WeatherReporter
	logger  *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithWeather wires a weather reporter. Without one, get_weather calls
// report unavailability.
func WithWeather(w WeatherReporter) ExecutorOption {
	return func(e *Executor) { e.weather = w }
}

// WithExecutorLogger sets the logger.
func WithExecutorLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = logger }
}

// NewExecutor creates an executor over the given place searcher.
func NewExecutor(finder PlaceSearcher, opts ...ExecutorOption) *Executor {
	e := &Executor{
		finder: finder,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// searchJob is one concurrent place lookup, tied back to the call that
// requested it.
type searchJob struct {
	callIdx int
	query   places.Query
	result  trip.PlaceResult
}

// Execute decodes and runs the given tool calls against the session's
// current state. Returns the decoded intents plus one tool-role message
// per call, in request order. Malformed calls are dropped individually;
// failed searches degrade to the not-found sentinel.
func (e *Executor) Execute(ctx context.Context, sess *trip.Session, calls []llm.ToolCall) (Intents, []llm.Message) {
	var intents Intents
	messages := make([]llm.Message, 0, len(calls))
	contents := make([]string, len(calls))
	dropped := make([]bool, len(calls))

	exclude := sess.ExcludedNames()

	var jobs []*searchJob
	var weatherIdx = -1
	var weatherArgs getWeatherArgs

	for i, call := range calls {
		start := time.Now()
		status := "ok"

		switch call.Name {
		case ToolFindPlace:
			var args findPlaceArgs
			if err := json.Unmarshal(call.Arguments, &args); err != nil || args.Query == "" {
				e.logger.Warn("Dropping malformed find_place call", "error", err)
				status, dropped[i] = "invalid", true
				break
			}
			jobs = append(jobs, &searchJob{
				callIdx: i,
				query: places.Query{
					Text:        args.Query,
					Destination: orDefault(args.Destination, sess.Destination),
					Anchor:      orDefault(args.Anchor, sess.SearchAnchor()),
					Category:    args.Category,
					Exclude:     exclude,
				},
			})

		case ToolDeletePlace:
			var args deletePlaceArgs
			if err := json.Unmarshal(call.Arguments, &args); err != nil || args.Name == "" {
				e.logger.Warn("Dropping malformed delete_place call", "error", err)
				status, dropped[i] = "invalid", true
				break
			}
			intents.Deletions = append(intents.Deletions, trip.Deletion{Target: args.Name})
			contents[i] = fmt.Sprintf(`{"action":"delete","name":%q}`, args.Name)

		case ToolReplacePlace:
			var args replacePlaceArgs
			if err := json.Unmarshal(call.Arguments, &args); err != nil || args.OldName == "" || args.NewQuery == "" {
				e.logger.Warn("Dropping malformed replace_place call", "error", err)
				status, dropped[i] = "invalid", true
				break
			}
			intents.Deletions = append(intents.Deletions, trip.Deletion{Target: args.OldName})
			jobs = append(jobs, &searchJob{
				callIdx: i,
				query: places.Query{
					Text:        args.NewQuery,
					Destination: orDefault(args.Destination, sess.Destination),
					Anchor:      sess.SearchAnchor(),
					Exclude:     exclude,
				},
			})

		case ToolPlanTimeline:
			intents.TimelineRequested = true
			contents[i] = `{"status":"timeline requested"}`

		case ToolOptimizeRoute:
			intents.OptimizeRequested = true
			intents.TimelineRequested = true
			contents[i] = `{"status":"route optimization requested"}`

		case ToolConfirmDownload:
			intents.ConfirmDownload = true
			contents[i] = `{"status":"confirmed"}`

		case ToolGetWeather:
			var args getWeatherArgs
			if err := json.Unmarshal(call.Arguments, &args); err != nil {
				e.logger.Warn("Dropping malformed get_weather call", "error", err)
				status, dropped[i] = "invalid", true
				break
			}
			weatherIdx = i
			weatherArgs = args

		default:
			e.logger.Warn("Unknown tool requested", "tool", call.Name)
			status, dropped[i] = "unknown", true
		}

		toolExecutions.WithLabelValues(call.Name, status).Inc()
		toolDuration.WithLabelValues(call.Name).Observe(time.Since(start).Seconds())
	}

	e.runSearches(ctx, jobs)

	if weatherIdx >= 0 {
		contents[weatherIdx] = e.fetchWeather(ctx, sess, weatherArgs, &intents)
	}

	// Place results apply in request order regardless of which search
	// finished first.
	for _, job := range jobs {
		intents.Additions = append(intents.Additions, job.result)
		payload, err := json.Marshal(job.result)
		if err != nil {
			payload = []byte(fmt.Sprintf(`{"name":%q}`, trip.NoPlaceFound))
		}
		contents[job.callIdx] = string(payload)
	}

	for i, call := range calls {
		if dropped[i] {
			continue
		}
		messages = append(messages, llm.Message{
			Role:       "tool",
			Content:    contents[i],
			ToolCallID: call.ID,
		})
	}

	return intents, messages
}

// runSearches executes place lookups concurrently. Every job gets a
// result: failures degrade to the not-found sentinel rather than
// aborting the turn.
func (e *Executor) runSearches(ctx context.Context, jobs []*searchJob) {
	if len(jobs) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		g.Go(func() error {
			result, err := e.finder.Find(gctx, job.query)
			if err != nil {
				if !errors.Is(err, places.ErrNotFound) {
					e.logger.Warn("Place search failed",
						"query", job.query.Text,
						"error", err)
				}
				result = trip.PlaceResult{Name: trip.NoPlaceFound}
			}
			job.result = result
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors
}

// fetchWeather runs the forecast lookup and caches the briefing on the
// session intents.
func (e *Executor) fetchWeather(ctx context.Context, sess *trip.Session, args getWeatherArgs, intents *Intents) string {
	if e.weather == nil {
		return `{"status":"weather service unavailable"}`
	}

	dest := orDefault(args.Destination, sess.Destination)
	dates := orDefault(args.Dates, sess.Dates)

	forecast, err := e.weather.Forecast(ctx, dest, dates)
	if err != nil {
		e.logger.Warn("Weather lookup failed", "destination", dest, "error", err)
		return `{"status":"weather lookup failed"}`
	}

	intents.Weather = forecast
	payload, err := json.Marshal(map[string]string{"forecast": forecast})
	if err != nil {
		return `{"status":"weather lookup failed"}`
	}
	return string(payload)
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
