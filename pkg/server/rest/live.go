package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/ohler55/ojg/oj"

	"github.com/letapeapp/race-engine-go/log"
	"github.com/letapeapp/race-engine-go/pkg/model"
)

const (
	writeWait  = 5 * time.Second
	pingPeriod = 30 * time.Second
)

type liveMessage struct {
	Type    string              `json:"type"`
	View    *model.RaceView     `json:"view,omitempty"`
	Event   *model.Notification `json:"event,omitempty"`
	RaceKey string              `json:"raceKey"`
}

// liveRace streams race views and notifications to a websocket viewer.
// Each viewer gets its own broadcast subscriptions; slow viewers miss
// frames instead of stalling the race.
func (s *Server) liveRace(w http.ResponseWriter, r *http.Request) {
	rpd, err := s.lookup.GetRace(chi.URLParam(r, "raceKey"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.l.Debug("websocket upgrade failed", log.ErrorField(err))
		return
	}
	l := s.l.Named("live")
	l.Info("viewer connected",
		log.String("race", rpd.Key), log.String("remote", conn.RemoteAddr().String()))

	viewCh := rpd.ViewBroadcast.Subscribe()
	notifCh := rpd.NotificationBroadcast.Subscribe()
	defer func() {
		rpd.ViewBroadcast.CancelSubscription(viewCh)
		rpd.NotificationBroadcast.CancelSubscription(notifCh)
		conn.Close()
		l.Info("viewer disconnected", log.String("race", rpd.Key))
	}()

	// drain the read side so close frames are processed
	readerGone := make(chan struct{})
	go func() {
		defer close(readerGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// initial snapshot so viewers don't wait for the next tick
	if view, err := rpd.Runner.View(); err == nil {
		if s.send(conn, liveMessage{Type: "view", View: view, RaceKey: rpd.Key}) != nil {
			return
		}
	}

	pinger := time.NewTicker(pingPeriod)
	defer pinger.Stop()
	for {
		select {
		case <-readerGone:
			return
		case view, ok := <-viewCh:
			if !ok {
				return
			}
			if s.send(conn, liveMessage{Type: "view", View: view, RaceKey: rpd.Key}) != nil {
				return
			}
		case notif, ok := <-notifCh:
			if !ok {
				return
			}
			msg := liveMessage{Type: "event", Event: &notif, RaceKey: rpd.Key}
			if s.send(conn, msg) != nil {
				return
			}
		case <-pinger.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) send(conn *websocket.Conn, msg liveMessage) error {
	data, err := oj.Marshal(msg)
	if err != nil {
		s.l.Error("marshal live message", log.ErrorField(err))
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
