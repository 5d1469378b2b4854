package nats

import (
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/ohler55/ojg/oj"

	"github.com/letapeapp/race-engine-go/log"
	"github.com/letapeapp/race-engine-go/pkg/model"
)

// DataProxy implementation publishing race data on NATS subjects.
// External displays (podium TV, stream overlays) subscribe to
// letape.race.<key>.view and letape.race.<key>.events.
type (
	NatsProxy struct {
		conn *nats.Conn
		l    *log.Logger
	}
	Option func(*NatsProxy)
)

func NewNatsProxy(conn *nats.Conn, opts ...Option) *NatsProxy {
	ret := &NatsProxy{
		conn: conn,
		l:    log.Default().Named("nats"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func WithLogger(arg *log.Logger) Option {
	return func(n *NatsProxy) {
		n.l = arg
	}
}

// Connect dials the NATS server and returns a proxy on the connection.
func Connect(url string, opts ...Option) (*NatsProxy, error) {
	conn, err := nats.Connect(url, nats.Name("letape-race-engine"))
	if err != nil {
		return nil, err
	}
	return NewNatsProxy(conn, opts...), nil
}

func (n *NatsProxy) PublishRaceView(key string, view *model.RaceView) error {
	data, err := oj.Marshal(view)
	if err != nil {
		return err
	}
	return n.conn.Publish(fmt.Sprintf("letape.race.%s.view", key), data)
}

func (n *NatsProxy) PublishNotification(key string, notif *model.Notification) error {
	data, err := oj.Marshal(notif)
	if err != nil {
		return err
	}
	return n.conn.Publish(fmt.Sprintf("letape.race.%s.events", key), data)
}

func (n *NatsProxy) Close() {
	if err := n.conn.Drain(); err != nil {
		n.l.Warn("drain failed", log.ErrorField(err))
	}
}
