package proxy

import (
	"sync"

	"github.com/letapeapp/race-engine-go/log"
	"github.com/letapeapp/race-engine-go/pkg/model"
	"github.com/letapeapp/race-engine-go/pkg/utils"
)

// DataProxy forwards live race data to out-of-process consumers
// (for example a TV podium display listening on NATS).
type DataProxy interface {
	PublishRaceView(key string, view *model.RaceView) error
	PublishNotification(key string, n *model.Notification) error
	Close()
}

// Relay pumps a race's broadcasts into a DataProxy.
type Relay struct {
	proxy  DataProxy
	l      *log.Logger
	mutex  sync.Mutex
	detach map[string]func()
}

type RelayOption func(*Relay)

func WithLogger(l *log.Logger) RelayOption {
	return func(r *Relay) {
		r.l = l
	}
}

func NewRelay(p DataProxy, opts ...RelayOption) *Relay {
	ret := &Relay{
		proxy:  p,
		l:      log.Default().Named("proxy.relay"),
		detach: make(map[string]func()),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Attach subscribes to the race's view and notification broadcasts
// and forwards everything until the race is detached or removed.
func (r *Relay) Attach(rpd *utils.RaceProcessingData) {
	viewCh := rpd.ViewBroadcast.Subscribe()
	notifCh := rpd.NotificationBroadcast.Subscribe()

	go func() {
		for view := range viewCh {
			if err := r.proxy.PublishRaceView(rpd.Key, view); err != nil {
				r.l.Error("publish view failed",
					log.String("key", rpd.Key), log.ErrorField(err))
			}
		}
		r.l.Debug("view relay done", log.String("key", rpd.Key))
	}()
	go func() {
		for n := range notifCh {
			if err := r.proxy.PublishNotification(rpd.Key, &n); err != nil {
				r.l.Error("publish notification failed",
					log.String("key", rpd.Key), log.ErrorField(err))
			}
		}
		r.l.Debug("notification relay done", log.String("key", rpd.Key))
	}()

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.detach[rpd.Key] = func() {
		rpd.ViewBroadcast.CancelSubscription(viewCh)
		rpd.NotificationBroadcast.CancelSubscription(notifCh)
	}
}

func (r *Relay) Detach(key string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if cancel, ok := r.detach[key]; ok {
		cancel()
		delete(r.detach, key)
	}
}

func (r *Relay) Close() {
	r.mutex.Lock()
	for key, cancel := range r.detach {
		cancel()
		delete(r.detach, key)
	}
	r.mutex.Unlock()
	r.proxy.Close()
}
