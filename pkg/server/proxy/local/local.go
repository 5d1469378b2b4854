package local

import (
	"github.com/letapeapp/race-engine-go/log"
	"github.com/letapeapp/race-engine-go/pkg/model"
)

// DataProxy implementation for single-process deployments. In-process
// viewers are served straight from the race broadcasts, so nothing
// has to be forwarded anywhere.
type (
	LocalProxy struct {
		l *log.Logger
	}
	Option func(*LocalProxy)
)

func NewLocalProxy(opts ...Option) *LocalProxy {
	ret := &LocalProxy{
		l: log.Default().Named("proxy.local"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func WithLogger(arg *log.Logger) Option {
	return func(l *LocalProxy) {
		l.l = arg
	}
}

func (l *LocalProxy) PublishRaceView(key string, view *model.RaceView) error {
	return nil
}

func (l *LocalProxy) PublishNotification(key string, n *model.Notification) error {
	return nil
}

func (l *LocalProxy) Close() {
	l.l.Debug("local proxy closed")
}
