package processing

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/letapeapp/race-engine-go/log"
	"github.com/letapeapp/race-engine-go/pkg/model"
	"github.com/letapeapp/race-engine-go/pkg/processing/ranking"
	"github.com/letapeapp/race-engine-go/pkg/processing/sprint"
)

// DefaultCompletionDelay lets the finishing tap's feedback render
// before the results view takes over.
const DefaultCompletionDelay = 500 * time.Millisecond

// puncture levels are drawn from [punctureBandStart, levelCount-3]
const punctureBandStart = 4

// Notifier receives the fire-once game events.
type Notifier func(model.Notification)

// Engine owns the race state. All mutation is funneled through its
// methods; it is not safe for concurrent use and expects callers to
// serialize ticks and actions (see Runner).
type Engine struct {
	state           *model.RaceState
	coordinator     *sprint.Coordinator
	recorder        *ranking.Recorder
	notify          Notifier
	rnd             *rand.Rand
	completionDelay time.Duration
	l               *log.Logger
	completionFired bool
}

type Option func(e *Engine)

// WithRandSource injects the randomness used for the puncture draw.
func WithRandSource(src rand.Source) Option {
	return func(e *Engine) {
		e.rnd = rand.New(src) //nolint:gosec // game randomness
	}
}

func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		e.notify = n
	}
}

func WithCompletionDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.completionDelay = d
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.l = l
	}
}

func WithRaceKey(key string) Option {
	return func(e *Engine) {
		e.state.Key = key
	}
}

//nolint:whitespace // can't make both editor and linter happy
func NewEngine(
	stageProfile *model.StageProfile,
	roster []model.Participant,
	opts ...Option,
) (*Engine, error) {
	if stageProfile == nil {
		return nil, ErrStageMissing
	}
	if err := stageProfile.Validate(); err != nil {
		return nil, err
	}
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}
	e := &Engine{
		state: &model.RaceState{
			Key:                  uuid.NewString(),
			Stage:                stageProfile,
			PlayerOrder:          make([]string, 0, len(roster)),
			Players:              make(map[string]*model.PlayerRaceState, len(roster)),
			SprintCountdown:      sprint.WindowSeconds,
			RestCheckpointCounts: make(map[int]int),
			FinishOrder:          make([]string, 0),
		},
		coordinator:     sprint.NewCoordinator(),
		recorder:        ranking.NewRecorder(),
		rnd:             rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // game randomness
		completionDelay: DefaultCompletionDelay,
		l:               log.Default().Named("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	now := time.Now()
	for i, part := range roster {
		id := part.ID
		if id == "" {
			id = uuid.NewString()
		}
		e.state.PlayerOrder = append(e.state.PlayerOrder, id)
		e.state.Players[id] = &model.PlayerRaceState{
			ID:                id,
			Name:              part.Name,
			PhotoRef:          part.PhotoRef,
			Number:            i + 1,
			Level:             1,
			RemainingSeconds:  stageProfile.Duration(1),
			Status:            model.StatusActive,
			StartedAt:         now,
			FinishedAtSeconds: -1,
		}
	}
	e.drawPunctureLevels()
	return e, nil
}

// drawPunctureLevels assigns each player the level at which their
// puncture fires. The band excludes the first 3 and last 3 levels;
// levels are unique per player as long as the band is large enough.
// Stages too short for the band get no punctures at all.
func (e *Engine) drawPunctureLevels() {
	bandEnd := e.state.Stage.LevelCount() - 3
	if bandEnd < punctureBandStart {
		return
	}
	bandSize := bandEnd - punctureBandStart + 1
	perm := e.rnd.Perm(bandSize)
	for i, id := range e.state.PlayerOrder {
		e.state.Players[id].PunctureLevel = punctureBandStart + perm[i%bandSize]
	}
}

func (e *Engine) Key() string { return e.state.Key }

// Completed reports whether the finish order covers every survivor.
func (e *Engine) Completed() bool {
	return e.recorder.Len() > 0 && e.recorder.Len() >= e.state.SurvivorCount()
}

// Tick advances all timers by one second. Every player is updated
// against the state as of the start of the tick; the new player set
// replaces the old one in a single swap.
func (e *Engine) Tick() {
	st := e.state
	next := make(map[string]*model.PlayerRaceState, len(st.Players))
	for id, p := range st.Players {
		next[id] = e.tickPlayer(p)
	}
	st.Players = next
	st.GlobalElapsedSeconds++
	if e.coordinator.Tick() {
		// window timed out: resolve with whoever is waiting, in arrival order
		e.finishCohort(e.coordinator.AutoResolve())
	}
	e.syncSprint()
}

func (e *Engine) tickPlayer(p *model.PlayerRaceState) *model.PlayerRaceState {
	q := p.Clone()
	switch p.Status {
	case model.StatusDNF, model.StatusDisqualified:
		// frozen
	case model.StatusFinished:
		// anti-doping cooldown display only
		if q.RemainingSeconds > 0 {
			q.RemainingSeconds--
		}
	case model.StatusAwaitingSprint:
		// waiting for the synchronized finish
	case model.StatusActive:
		q.RemainingSeconds--
		if q.RemainingSeconds <= 0 {
			q.RemainingSeconds = 0
			q.Status = model.StatusDNF
			e.l.Debug("player did not finish level in time",
				log.String("player", q.ID), log.Int("level", q.Level))
		}
	}
	return q
}

// finishPlayer records an individual finisher.
func (e *Engine) finishPlayer(p *model.PlayerRaceState) {
	p.Status = model.StatusFinished
	p.FinishedAtSeconds = e.state.GlobalElapsedSeconds
	done := e.recorder.Append(p.ID, e.state.SurvivorCount())
	e.state.FinishOrder = e.recorder.Order()
	e.l.Info("player finished",
		log.String("player", p.ID),
		log.Int("position", e.recorder.Position(p.ID)))
	if done {
		e.fireCompletion()
	}
}

// finishCohort records a resolved sprint cohort as a contiguous block.
func (e *Engine) finishCohort(ordered []string) {
	st := e.state
	for _, id := range ordered {
		if p, ok := st.Players[id]; ok {
			p.Status = model.StatusFinished
			p.FinishedAtSeconds = st.GlobalElapsedSeconds
		}
	}
	st.SprintCompleted = true
	done := e.recorder.AppendBlock(ordered, st.SurvivorCount())
	st.FinishOrder = e.recorder.Order()
	e.syncSprint()
	if done {
		e.fireCompletion()
	}
}

func (e *Engine) fireCompletion() {
	if e.completionFired {
		return
	}
	e.completionFired = true
	n := model.Notification{
		Type:        model.NotifyRaceCompleted,
		RaceKey:     e.state.Key,
		FinishOrder: e.recorder.Order(),
	}
	if e.completionDelay <= 0 {
		e.notifyEvent(n)
		return
	}
	time.AfterFunc(e.completionDelay, func() {
		e.notifyEvent(n)
	})
}

func (e *Engine) notifyEvent(n model.Notification) {
	n.RaceKey = e.state.Key
	if e.notify != nil {
		e.notify(n)
	}
}

// syncSprint mirrors the coordinator into the aggregate state.
func (e *Engine) syncSprint() {
	e.state.SprintActive = e.coordinator.WindowOpen()
	e.state.SprintCountdown = e.coordinator.Countdown()
	e.state.SprintTriggeredBy = e.coordinator.TriggeredBy()
}
