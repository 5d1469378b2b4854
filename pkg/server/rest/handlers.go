package rest

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ohler55/ojg/oj"

	"github.com/letapeapp/race-engine-go/log"
	"github.com/letapeapp/race-engine-go/pkg/model"
	"github.com/letapeapp/race-engine-go/pkg/processing"
	"github.com/letapeapp/race-engine-go/pkg/processing/sprint"
	"github.com/letapeapp/race-engine-go/pkg/stage"
	"github.com/letapeapp/race-engine-go/pkg/utils"
)

type createRaceRequest struct {
	StageID string              `json:"stageId"`
	Players []model.Participant `json:"players"`
}

type raceSummary struct {
	Key        string    `json:"key"`
	StageID    string    `json:"stageId"`
	StageTitle string    `json:"stageTitle"`
	Created    time.Time `json:"created"`
}

type assignOrderRequest struct {
	PlayerID string `json:"playerId"`
	Position int    `json:"position"`
}

func (s *Server) createRace(w http.ResponseWriter, r *http.Request) {
	var req createRaceRequest
	if !s.decode(w, r, &req) {
		return
	}
	stageProfile, err := s.catalog.Lookup(req.StageID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rpd, err := s.lookup.AddRace(stageProfile, req.Players, nil,
		processing.WithTickInterval(s.tickInterval))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.relay != nil {
		s.relay.Attach(rpd)
	}
	view, err := rpd.Runner.View()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, view)
}

func (s *Server) listRaces(w http.ResponseWriter, _ *http.Request) {
	races := s.lookup.GetRaces()
	out := make([]raceSummary, 0, len(races))
	for _, rpd := range races {
		out = append(out, raceSummary{
			Key:        rpd.Key,
			StageID:    rpd.Stage.ID,
			StageTitle: rpd.Stage.Title,
			Created:    rpd.Created,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) getRace(w http.ResponseWriter, r *http.Request) {
	rpd, err := s.lookup.GetRace(chi.URLParam(r, "raceKey"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	view, err := rpd.Runner.View()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) abandonRace(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "raceKey")
	// detach first: the relay's forwarders must unsubscribe while the
	// broadcasts are still alive
	if s.relay != nil {
		s.relay.Detach(key)
	}
	if err := s.lookup.RemoveRace(key); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// playerAction builds a handler around one of the engine's per-player
// operations (advance, revert, revive).
func (s *Server) playerAction(
	action func(e *processing.Engine, playerID string) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID := chi.URLParam(r, "playerID")
		s.raceCommand(w, r, func(e *processing.Engine) error {
			return action(e, playerID)
		})
	}
}

func (s *Server) openResolution(w http.ResponseWriter, r *http.Request) {
	s.raceCommand(w, r, (*processing.Engine).OpenResolution)
}

func (s *Server) assignOrder(w http.ResponseWriter, r *http.Request) {
	var req assignOrderRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.raceCommand(w, r, func(e *processing.Engine) error {
		return e.AssignOrder(req.PlayerID, req.Position)
	})
}

func (s *Server) removeFromOrder(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	s.raceCommand(w, r, func(e *processing.Engine) error {
		return e.RemoveFromOrder(playerID)
	})
}

func (s *Server) confirmResolution(w http.ResponseWriter, r *http.Request) {
	s.raceCommand(w, r, (*processing.Engine).ConfirmResolution)
}

func (s *Server) cancelResolution(w http.ResponseWriter, r *http.Request) {
	s.raceCommand(w, r, (*processing.Engine).CancelResolution)
}

func (s *Server) listStages(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.catalog.All())
}

func (s *Server) getStage(w http.ResponseWriter, r *http.Request) {
	stageProfile, err := s.catalog.Lookup(chi.URLParam(r, "stageID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stageProfile)
}

// raceCommand runs fn on the race's engine inside its run loop and
// answers with the resulting view.
func (s *Server) raceCommand(
	w http.ResponseWriter, r *http.Request, fn func(e *processing.Engine) error,
) {
	rpd, err := s.lookup.GetRace(chi.URLParam(r, "raceKey"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := rpd.Runner.Do(fn); err != nil {
		s.writeError(w, err)
		return
	}
	view, err := rpd.Runner.View()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		s.writeError(w, err)
		return false
	}
	if err := oj.Unmarshal(body, target); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := oj.Marshal(payload)
	if err != nil {
		s.l.Error("marshal response", log.ErrorField(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.l.Debug("write response", log.ErrorField(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, utils.ErrRaceNotFound),
		errors.Is(err, processing.ErrUnknownPlayer),
		errors.Is(err, stage.ErrStageNotFound):
		status = http.StatusNotFound
	case errors.Is(err, processing.ErrInvalidAction),
		errors.Is(err, processing.ErrRaceStopped):
		status = http.StatusConflict
	case errors.Is(err, sprint.ErrWindowNotOpen),
		errors.Is(err, sprint.ErrNotResolving),
		errors.Is(err, sprint.ErrNotInCohort),
		errors.Is(err, sprint.ErrPositionTaken),
		errors.Is(err, sprint.ErrInvalidPosition),
		errors.Is(err, sprint.ErrIncompleteResolution):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, processing.ErrStageMissing),
		errors.Is(err, processing.ErrEmptyRoster):
		status = http.StatusBadRequest
	}
	http.Error(w, err.Error(), status)
}
