package processing

import (
	"errors"
	"time"

	"github.com/letapeapp/race-engine-go/log"
	"github.com/letapeapp/race-engine-go/pkg/model"
)

var ErrRaceStopped = errors.New("race is no longer running")

// DefaultTickInterval is the authoritative clock rate. Players react
// to the displayed timers, so ticks are neither skipped nor batched.
const DefaultTickInterval = time.Second

type command struct {
	fn    func(e *Engine) error
	reply chan error
}

// Runner owns one race: a single goroutine serializes the clock ticks
// and all player actions onto one logical event queue, so no action is
// ever applied against a partially updated state.
type Runner struct {
	engine   *Engine
	interval time.Duration
	inbox    chan command
	viewCh   chan *model.RaceView
	notifCh  chan model.Notification
	quit     chan struct{}
	done     chan struct{}
	l        *log.Logger
}

type RunnerOption func(r *Runner)

func WithTickInterval(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.interval = d
	}
}

func WithRunnerLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) {
		r.l = l
	}
}

//nolint:whitespace // can't make both editor and linter happy
func NewRunner(
	stageProfile *model.StageProfile,
	roster []model.Participant,
	engineOpts []Option,
	opts ...RunnerOption,
) (*Runner, error) {
	r := &Runner{
		interval: DefaultTickInterval,
		inbox:    make(chan command, 32),
		viewCh:   make(chan *model.RaceView),
		notifCh:  make(chan model.Notification, 16),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		l:        log.Default().Named("runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	engineOpts = append(engineOpts, WithNotifier(r.publishNotification))
	engine, err := NewEngine(stageProfile, roster, engineOpts...)
	if err != nil {
		return nil, err
	}
	r.engine = engine
	return r, nil
}

func (r *Runner) Key() string { return r.engine.Key() }

// Run drives the race until Stop is called. The clock keeps ticking
// regardless of attached viewers; it only stops once the race is
// complete.
func (r *Runner) Run() {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	r.l.Info("race started", log.String("key", r.engine.Key()))
	for {
		select {
		case <-r.quit:
			r.l.Info("race stopped", log.String("key", r.engine.Key()))
			return
		case cmd := <-r.inbox:
			err := cmd.fn(r.engine)
			cmd.reply <- err
			if err == nil {
				r.publishView()
			}
		case <-ticker.C:
			if r.engine.Completed() {
				continue
			}
			r.engine.Tick()
			r.publishView()
		}
	}
}

func (r *Runner) Stop() {
	select {
	case <-r.quit:
	default:
		close(r.quit)
	}
	<-r.done
}

// Do executes fn on the race goroutine and returns its error. Action
// errors never disturb the tick cycle; they only reach the caller.
func (r *Runner) Do(fn func(e *Engine) error) error {
	cmd := command{fn: fn, reply: make(chan error, 1)}
	select {
	case r.inbox <- cmd:
	case <-r.quit:
		return ErrRaceStopped
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-r.done:
		return ErrRaceStopped
	}
}

// View returns a snapshot taken between ticks and actions.
func (r *Runner) View() (*model.RaceView, error) {
	var view *model.RaceView
	err := r.Do(func(e *Engine) error {
		view = e.View()
		return nil
	})
	return view, err
}

// Views is consumed as broadcast source for live viewers.
func (r *Runner) Views() <-chan *model.RaceView { return r.viewCh }

// Notifications is consumed as broadcast source for game events.
func (r *Runner) Notifications() <-chan model.Notification { return r.notifCh }

func (r *Runner) publishView() {
	select {
	case r.viewCh <- r.engine.View():
	default:
		// no viewer ready, the next snapshot supersedes this one anyway
	}
}

func (r *Runner) publishNotification(n model.Notification) {
	select {
	case r.notifCh <- n:
	default:
		r.l.Warn("dropping notification, no consumer",
			log.String("type", string(n.Type)))
	}
}
