package utils

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/letapeapp/race-engine-go/log"
	"github.com/letapeapp/race-engine-go/pkg/model"
	"github.com/letapeapp/race-engine-go/pkg/processing"
	"github.com/letapeapp/race-engine-go/pkg/utils/broadcast"
)

var ErrRaceNotFound = errors.New("race not found")

// RaceProcessingData bundles everything belonging to one live race.
type RaceProcessingData struct {
	Key                   string
	Stage                 *model.StageProfile
	Runner                *processing.Runner
	ViewBroadcast         broadcast.BroadcastServer[*model.RaceView]
	NotificationBroadcast broadcast.BroadcastServer[model.Notification]
	Created               time.Time
}

// RaceLookup is the registry of live races. Races exist only in
// memory for the duration of one session.
type RaceLookup struct {
	lookup map[string]*RaceProcessingData
	mutex  sync.RWMutex
	l      *log.Logger
}

type LookupOption func(*RaceLookup)

func WithLookupLogger(l *log.Logger) LookupOption {
	return func(rl *RaceLookup) {
		rl.l = l
	}
}

func NewRaceLookup(opts ...LookupOption) *RaceLookup {
	ret := &RaceLookup{
		lookup: make(map[string]*RaceProcessingData),
		l:      log.Default().Named("lookup"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.setupMetrics()
	return ret
}

func (rl *RaceLookup) setupMetrics() {
	meter := otel.GetMeterProvider().Meter("letape.races")
	if _, err := meter.Int64ObservableGauge(
		"letape.races.live",
		metric.WithDescription("Number of live races"),
		metric.WithUnit("{count}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			rl.mutex.RLock()
			defer rl.mutex.RUnlock()
			o.Observe(int64(len(rl.lookup)))
			return nil
		})); err != nil {
		rl.l.Error("failed to register metric", log.ErrorField(err))
	}
}

// AddRace creates the race, starts its run loop and wires the
// broadcasts for live viewers.
//
//nolint:whitespace // can't make both editor and linter happy
func (rl *RaceLookup) AddRace(
	stageProfile *model.StageProfile,
	roster []model.Participant,
	engineOpts []processing.Option,
	runnerOpts ...processing.RunnerOption,
) (*RaceProcessingData, error) {
	runner, err := processing.NewRunner(stageProfile, roster, engineOpts, runnerOpts...)
	if err != nil {
		return nil, err
	}
	key := runner.Key()
	rpd := &RaceProcessingData{
		Key:     key,
		Stage:   stageProfile,
		Runner:  runner,
		Created: time.Now(),
		ViewBroadcast: broadcast.NewBroadcastServer(
			key, "view", runner.Views()),
		NotificationBroadcast: broadcast.NewBroadcastServer(
			key, "events", runner.Notifications()),
	}
	rl.mutex.Lock()
	rl.lookup[key] = rpd
	rl.mutex.Unlock()
	go runner.Run()
	rl.l.Info("race registered",
		log.String("key", key), log.String("stage", stageProfile.ID))
	return rpd, nil
}

func (rl *RaceLookup) GetRace(key string) (*RaceProcessingData, error) {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()
	if rpd, ok := rl.lookup[key]; ok {
		return rpd, nil
	}
	return nil, ErrRaceNotFound
}

// RemoveRace stops the run loop and tears down the broadcasts.
func (rl *RaceLookup) RemoveRace(key string) error {
	rl.mutex.Lock()
	rpd, ok := rl.lookup[key]
	if ok {
		delete(rl.lookup, key)
	}
	rl.mutex.Unlock()
	if !ok {
		return ErrRaceNotFound
	}
	rpd.Runner.Stop()
	rpd.ViewBroadcast.Close()
	rpd.NotificationBroadcast.Close()
	rl.l.Info("race removed", log.String("key", key))
	return nil
}

// GetRaces returns the live races in no particular order.
func (rl *RaceLookup) GetRaces() []*RaceProcessingData {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()
	ret := make([]*RaceProcessingData, 0, len(rl.lookup))
	for _, rpd := range rl.lookup {
		ret = append(ret, rpd)
	}
	return ret
}

func (rl *RaceLookup) Clear() {
	rl.mutex.Lock()
	keys := make([]string, 0, len(rl.lookup))
	for k := range rl.lookup {
		keys = append(keys, k)
	}
	rl.mutex.Unlock()
	for _, k := range keys {
		//nolint:errcheck // already removed is fine here
		rl.RemoveRace(k)
	}
}
