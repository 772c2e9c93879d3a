package dialog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tripkit-ai/tripkit/llm"
	"github.com/tripkit-ai/tripkit/tools"
	"github.com/tripkit-ai/tripkit/trip"
)

// DefaultMaxSteps bounds tool-call rounds within a single turn. The
// loop guard catches recompute loops; the ceiling catches everything
// else.
const DefaultMaxSteps = 12

// Completer is the LLM client surface the engine needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// ToolExecutor runs one round of tool calls against a session.
type ToolExecutor interface {
	Execute(ctx context.Context, sess *trip.Session, calls []llm.ToolCall) (tools.Intents, []llm.Message)
}

// RouteOptimizer reorders a day's places to minimize travel time.
type RouteOptimizer interface {
	Optimize(ctx context.Context, places []string, start string) ([]string, error)
}

// EventSink receives lifecycle notifications. A nil sink disables
// publication.
type EventSink interface {
	TurnCompleted(ctx context.Context, sess *trip.Session, reply string)
	ItineraryUpdated(ctx context.Context, sess *trip.Session)
}

// Engine drives one conversation turn to completion: route to a
// behavior, loop over model responses and tool rounds, mutate the
// itinerary, reconcile the timeline, transition the stage.
type Engine struct {
	completer  Completer
	executor   ToolExecutor
	mutator    *trip.Mutator
	reconciler *trip.Reconciler
	optimizer  RouteOptimizer
	events     EventSink
	maxSteps   int
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMaxSteps overrides the per-turn tool-round ceiling.
func WithMaxSteps(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithOptimizer wires the route optimizer used by optimize_route.
func WithOptimizer(o RouteOptimizer) EngineOption {
	return func(e *Engine) { e.optimizer = o }
}

// WithEvents wires an event sink.
func WithEvents(s EventSink) EngineOption {
	return func(e *Engine) { e.events = s }
}

// WithEngineLogger sets the logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine creates a turn engine.
func NewEngine(completer Completer, executor ToolExecutor, mutator *trip.Mutator, reconciler *trip.Reconciler, opts ...EngineOption) *Engine {
	e := &Engine{
		completer:  completer,
		executor:   executor,
		mutator:    mutator,
		reconciler: reconciler,
		maxSteps:   DefaultMaxSteps,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reply is the outcome of one turn.
type Reply struct {
	// Text is the assistant's display message.
	Text string

	// Behavior is the persona that ultimately served the turn.
	Behavior Behavior

	// DownloadReady mirrors the session flag for the UI.
	DownloadReady bool

	// TimelineRebuilt is set when the scheduler ran this turn.
	TimelineRebuilt bool

	// ScheduleFull is set when an addition was rejected for capacity.
	ScheduleFull bool
}

// HandleTurn processes one user message to completion. Never panics
// outward: a failing behavior logs and returns whatever partial state
// accumulated. One turn at a time per session; the caller serializes.
func (e *Engine) HandleTurn(ctx context.Context, sess *trip.Session, userMessage string) (reply *Reply, err error) {
	behavior := Route(sess, userMessage)
	reply = &Reply{Behavior: behavior}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("turn panicked, keeping partial state",
				"session", sess.ID,
				"panic", r)
			if reply.Text == "" {
				reply.Text = "Something went wrong applying that change. Your itinerary kept the edits that succeeded."
			}
			err = nil
		}
	}()

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt(behavior, sess)},
		{Role: "user", Content: userMessage},
	}

	guard := &LoopGuard{}
	var cumulative trip.Outcome
	var timelineRequested bool

	for step := 0; step < e.maxSteps; step++ {
		resp, cerr := e.completer.Complete(ctx, llm.Request{
			Capability: behavior.Capability(),
			Messages:   messages,
			Tools:      tools.Definitions(),
			ToolChoice: llm.ToolChoiceAuto,
		})
		if cerr != nil {
			e.logger.Error("completion failed, ending turn with partial state",
				"session", sess.ID,
				"behavior", behavior,
				"error", cerr)
			if reply.Text == "" {
				reply.Text = "I could not finish that request. Your itinerary is unchanged beyond the edits already applied."
			}
			break
		}

		if !resp.HasToolCalls() {
			e.applyLegacy(sess, reply, resp.Content)
			break
		}

		calls := resp.ToolCalls
		if guard.Tripped() {
			calls = dropTieBreakers(calls)
			if behavior != BehaviorEditor {
				e.logger.Info("loop guard tripped, handing off to editor", "session", sess.ID)
				behavior = BehaviorEditor
				reply.Behavior = behavior
			}
			if len(calls) == 0 {
				messages = append(messages,
					llm.Message{Role: "assistant", Content: resp.Content},
					llm.Message{Role: "user", Content: "The timeline is already up to date. Present the itinerary instead of recomputing it."})
				continue
			}
		}

		intents, toolMsgs := e.executor.Execute(ctx, sess, calls)
		for _, c := range calls {
			guard.Record(c.Name)
		}

		out := e.mutator.Apply(sess, intents.Deletions, intents.Additions)
		cumulative.Added = append(cumulative.Added, out.Added...)
		cumulative.Removed = append(cumulative.Removed, out.Removed...)
		cumulative.ScheduleFull = cumulative.ScheduleFull || out.ScheduleFull
		timelineRequested = timelineRequested || intents.TimelineRequested

		if intents.ConfirmDownload {
			sess.DownloadReady = true
			reply.DownloadReady = true
		}
		if intents.Weather != "" {
			sess.Weather = intents.Weather
		}

		if intents.OptimizeRequested && e.optimizer != nil {
			e.optimizeDays(ctx, sess)
		}

		rebuilt, rerr := e.reconciler.Reconcile(ctx, sess, timelineRequested, cumulative)
		if rerr != nil {
			e.logger.Warn("reconcile failed", "session", sess.ID, "error", rerr)
		}
		reply.TimelineRebuilt = reply.TimelineRebuilt || rebuilt

		messages = append(messages, llm.Message{Role: "assistant", Content: resp.Content})
		messages = append(messages, toolMsgs...)

		if rebuilt {
			messages = append(messages, llm.Message{
				Role:    "user",
				Content: "Computed timeline:\n" + itineraryJSON(sess.Itinerary),
			})
		}
		if out.ScheduleFull {
			reply.ScheduleFull = true
			messages = append(messages, llm.Message{
				Role:    "user",
				Content: "The schedule is full. Do not search for more places; summarize the current itinerary instead.",
			})
		}
	}

	e.transitionStage(sess)

	if e.events != nil {
		e.events.TurnCompleted(ctx, sess, reply.Text)
		if cumulative.Changed() || reply.TimelineRebuilt {
			e.events.ItineraryUpdated(ctx, sess)
		}
	}

	return reply, nil
}

// applyLegacy decodes prose-embedded signals from a final text response
// and applies them to the session.
func (e *Engine) applyLegacy(sess *trip.Session, reply *Reply, content string) {
	signals, display := tools.DecodeLegacy(content)
	if signals.ConfirmDownload {
		sess.DownloadReady = true
		reply.DownloadReady = true
	}
	if len(signals.Itinerary) > 0 {
		sess.Itinerary = signals.Itinerary
	}
	reply.Text = display
}

// transitionStage flips planning to editing once every day meets its
// target, or once the user confirmed the plan. Editing is sticky.
func (e *Engine) transitionStage(sess *trip.Session) {
	if sess.Stage != trip.StagePlanning {
		return
	}
	if sess.PlanningComplete() || sess.DownloadReady {
		sess.Stage = trip.StageEditing
		e.logger.Info("stage transition", "session", sess.ID, "stage", sess.Stage)
	}
}

// optimizeDays reorders each day's stops for travel time. Failures keep
// the existing order.
func (e *Engine) optimizeDays(ctx context.Context, sess *trip.Session) {
	stops := sess.Itinerary.Stops()
	byName := make(map[string]trip.Stop, len(stops))
	for _, s := range stops {
		byName[s.Name] = s
	}

	var reordered []trip.Stop
	for _, day := range sess.Itinerary.Days() {
		dayStops := sess.Itinerary.StopsForDay(day)
		names := make([]string, len(dayStops))
		for i, s := range dayStops {
			names[i] = s.Name
		}

		order, err := e.optimizer.Optimize(ctx, names, "")
		if err != nil || len(order) != len(names) {
			if err != nil {
				e.logger.Warn("route optimization failed, keeping order",
					"day", day,
					"error", err)
			}
			reordered = append(reordered, dayStops...)
			continue
		}
		for _, name := range order {
			reordered = append(reordered, byName[name])
		}
	}

	sess.Itinerary = trip.FromStops(reordered)
}

// dropTieBreakers filters timeline/optimize calls out of a round.
func dropTieBreakers(calls []llm.ToolCall) []llm.ToolCall {
	kept := make([]llm.ToolCall, 0, len(calls))
	for _, c := range calls {
		if !tools.IsTieBreaker(c.Name) {
			kept = append(kept, c)
		}
	}
	return kept
}

// itineraryJSON renders the itinerary for prompt context. Marshal
// failures degrade to an empty list.
func itineraryJSON(it trip.Itinerary) string {
	data, err := json.Marshal(it)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// systemPrompt builds the behavior persona prompt with session context.
func systemPrompt(b Behavior, sess *trip.Session) string {
	var sb strings.Builder

	switch b {
	case BehaviorEditor:
		sb.WriteString("You are a travel itinerary editor. Apply the user's modifications to the existing plan using the provided tools. ")
		sb.WriteString("Use delete_place and replace_place for removals, find_place for additions, and plan_timeline after structural changes. ")
	default:
		sb.WriteString("You are a travel planner filling a day-by-day itinerary. Use find_place to add stops one at a time, keeping each day's activities geographically close. ")
		sb.WriteString("Call plan_timeline once a day's stops are settled. ")
	}
	sb.WriteString("When the user asks to download or finalize the plan, call confirm_download.\n\n")

	fmt.Fprintf(&sb, "Destination: %s\nTrip length: %d day(s)\nStage: %s\n", sess.Destination, sess.TotalDays, sess.Stage)
	if sess.Dates != "" {
		fmt.Fprintf(&sb, "Dates: %s\n", sess.Dates)
	}
	if sess.Preference != "" {
		fmt.Fprintf(&sb, "Preferences: %s\n", sess.Preference)
	}
	if sess.Weather != "" {
		fmt.Fprintf(&sb, "Weather: %s\n", sess.Weather)
	}
	if len(sess.BanList) > 0 {
		fmt.Fprintf(&sb, "Never suggest again: %s\n", strings.Join(sess.BanList, ", "))
	}

	stops := sess.Itinerary.Stops()
	if len(stops) == 0 {
		sb.WriteString("Current itinerary: empty\n")
		return sb.String()
	}

	sb.WriteString("Current itinerary:\n")
	for _, s := range stops {
		fmt.Fprintf(&sb, "- day %d [%s] %s", s.Day, s.Type, s.Name)
		if s.Start != "" {
			fmt.Fprintf(&sb, " (%s-%s)", s.Start, s.End)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
