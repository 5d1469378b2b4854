//nolint:funlen // ok for tests
package processing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letapeapp/race-engine-go/pkg/model"
	"github.com/letapeapp/race-engine-go/testsupport/basedata"
)

func roster(names ...string) []model.Participant {
	ret := make([]model.Participant, 0, len(names))
	for _, n := range names {
		ret = append(ret, model.Participant{ID: n, Name: n})
	}
	return ret
}

type eventSink struct {
	events []model.Notification
}

func (s *eventSink) record(n model.Notification) {
	s.events = append(s.events, n)
}

func (s *eventSink) ofType(typ model.NotificationType) []model.Notification {
	ret := []model.Notification{}
	for _, n := range s.events {
		if n.Type == typ {
			ret = append(ret, n)
		}
	}
	return ret
}

//nolint:whitespace // can't make both editor and linter happy
func newTestEngine(
	t *testing.T, names []string, opts ...Option,
) (*Engine, *eventSink) {
	t.Helper()
	sink := &eventSink{}
	opts = append([]Option{
		WithNotifier(sink.record),
		WithCompletionDelay(0),
	}, opts...)
	engine, err := NewEngine(basedata.SampleStage(), roster(names...), opts...)
	require.NoError(t, err)
	return engine, sink
}

func advanceTo(t *testing.T, e *Engine, playerID string, level int) {
	t.Helper()
	for e.state.Players[playerID].Level < level {
		require.NoError(t, e.Advance(playerID))
	}
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := NewEngine(nil, roster("alice"))
	assert.ErrorIs(t, err, ErrStageMissing)

	_, err = NewEngine(&model.StageProfile{ID: "bad"}, roster("alice"))
	assert.ErrorIs(t, err, model.ErrInvalidStage)

	_, err = NewEngine(basedata.SampleStage(), nil)
	assert.ErrorIs(t, err, ErrEmptyRoster)
}

func TestNewEngine_InitialState(t *testing.T) {
	e, _ := newTestEngine(t, []string{"alice", "bob"})
	assert.NotEmpty(t, e.Key())
	assert.False(t, e.Completed())

	alice := e.state.Players["alice"]
	assert.Equal(t, 1, alice.Number)
	assert.Equal(t, 1, alice.Level)
	assert.Equal(t, 60, alice.RemainingSeconds)
	assert.Equal(t, model.StatusActive, alice.Status)
	assert.Equal(t, -1, alice.FinishedAtSeconds)
	assert.Equal(t, 2, e.state.Players["bob"].Number)
	// the sample stage is too short for the puncture band
	assert.Equal(t, 0, alice.PunctureLevel)
}

func TestEngine_RosterWithoutIDs(t *testing.T) {
	e, err := NewEngine(basedata.SampleStage(),
		[]model.Participant{{Name: "Anon"}}, WithCompletionDelay(0))
	require.NoError(t, err)
	require.Len(t, e.state.PlayerOrder, 1)
	assert.NotEmpty(t, e.state.PlayerOrder[0])
}

func TestEngine_TickRunsOutTheLevelTimer(t *testing.T) {
	e, _ := newTestEngine(t, []string{"alice", "bob"})
	for i := 0; i < 59; i++ {
		e.Tick()
	}
	alice := e.state.Players["alice"]
	assert.Equal(t, 1, alice.RemainingSeconds)
	assert.Equal(t, model.StatusActive, alice.Status)

	e.Tick()
	alice = e.state.Players["alice"]
	assert.Equal(t, 0, alice.RemainingSeconds)
	assert.Equal(t, model.StatusDNF, alice.Status)
	assert.Equal(t, 60, e.state.GlobalElapsedSeconds)
}

func TestEngine_AdvanceResetsTheTimer(t *testing.T) {
	e, _ := newTestEngine(t, []string{"alice", "bob"})
	for i := 0; i < 23; i++ {
		e.Tick()
	}
	require.NoError(t, e.Advance("alice"))

	alice := e.state.Players["alice"]
	assert.Equal(t, 2, alice.Level)
	assert.Equal(t, 60, alice.RemainingSeconds)
	assert.Equal(t, 1, alice.Advances)
	// bob's timer is untouched
	assert.Equal(t, 37, e.state.Players["bob"].RemainingSeconds)
}

func TestEngine_AdvanceGuards(t *testing.T) {
	e, _ := newTestEngine(t, []string{"alice", "bob"})
	assert.ErrorIs(t, e.Advance("mallory"), ErrUnknownPlayer)

	for i := 0; i < 60; i++ {
		e.Tick()
	}
	assert.ErrorIs(t, e.Advance("alice"), ErrInvalidAction)
}

func TestEngine_DNFPlayerIsFrozen(t *testing.T) {
	e, _ := newTestEngine(t, []string{"alice", "bob"})
	for i := 0; i < 60; i++ {
		e.Tick()
	}
	require.Equal(t, model.StatusDNF, e.state.Players["alice"].Status)
	e.Tick()
	assert.Equal(t, 0, e.state.Players["alice"].RemainingSeconds)
	assert.Equal(t, model.StatusDNF, e.state.Players["alice"].Status)
}

func TestEngine_Revive(t *testing.T) {
	e, _ := newTestEngine(t, []string{"alice", "bob"})
	assert.ErrorIs(t, e.Revive("alice"), ErrInvalidAction)

	for i := 0; i < 60; i++ {
		e.Tick()
	}
	require.NoError(t, e.Revive("alice"))
	alice := e.state.Players["alice"]
	assert.Equal(t, model.StatusActive, alice.Status)
	assert.Equal(t, 1, alice.Level)
	assert.Equal(t, 60, alice.RemainingSeconds)

	assert.ErrorIs(t, e.Revive("mallory"), ErrUnknownPlayer)
}

func TestEngine_Revert(t *testing.T) {
	t.Run("drops a level and restarts the interval", func(t *testing.T) {
		e, _ := newTestEngine(t, []string{"alice", "bob"})
		advanceTo(t, e, "alice", 3)
		for i := 0; i < 10; i++ {
			e.Tick()
		}
		require.NoError(t, e.Revert("alice"))
		alice := e.state.Players["alice"]
		assert.Equal(t, 2, alice.Level)
		assert.Equal(t, 60, alice.RemainingSeconds)
	})

	t.Run("rejected at the first level", func(t *testing.T) {
		e, _ := newTestEngine(t, []string{"alice", "bob"})
		assert.ErrorIs(t, e.Revert("alice"), ErrInvalidAction)
	})

	t.Run("rejected for dnf players", func(t *testing.T) {
		e, _ := newTestEngine(t, []string{"alice", "bob"})
		for i := 0; i < 60; i++ {
			e.Tick()
		}
		assert.ErrorIs(t, e.Revert("alice"), ErrInvalidAction)
	})

	t.Run("unknown player", func(t *testing.T) {
		e, _ := newTestEngine(t, []string{"alice", "bob"})
		assert.ErrorIs(t, e.Revert("mallory"), ErrUnknownPlayer)
	})
}

func TestEngine_RevertDisqualifiesFinishedPlayer(t *testing.T) {
	e, _ := newTestEngine(t, []string{"alice", "bob"})
	advanceTo(t, e, "alice", 5)
	advanceTo(t, e, "bob", 5)
	require.NoError(t, e.OpenResolution())
	require.NoError(t, e.AssignOrder("alice", 1))
	require.NoError(t, e.AssignOrder("bob", 2))
	require.NoError(t, e.ConfirmResolution())
	require.Equal(t, model.StatusFinished, e.state.Players["alice"].Status)

	require.NoError(t, e.Revert("alice"))
	alice := e.state.Players["alice"]
	assert.Equal(t, model.StatusDisqualified, alice.Status)
	assert.Equal(t, 0, alice.RemainingSeconds)
	// the finish order keeps the entry, the standings drop it
	assert.Equal(t, []string{"alice", "bob"}, e.state.FinishOrder)
	assert.ErrorIs(t, e.Revert("alice"), ErrInvalidAction)
}

func TestEngine_PunctureDraw(t *testing.T) {
	e, err := NewEngine(basedata.LongStage(), roster("alice", "bob", "carol"),
		WithRandSource(rand.NewSource(42)))
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, p := range e.state.Players {
		// band excludes the first and last three levels of the 10
		assert.GreaterOrEqual(t, p.PunctureLevel, 4)
		assert.LessOrEqual(t, p.PunctureLevel, 7)
		assert.False(t, seen[p.PunctureLevel], "puncture levels must be unique")
		seen[p.PunctureLevel] = true
	}
}

func TestEngine_PunctureFiresOnArrival(t *testing.T) {
	e, sink := newTestEngine(t, []string{"alice", "bob"})
	// forced, the sample stage draws no punctures
	e.state.Players["alice"].PunctureLevel = 3

	advanceTo(t, e, "alice", 3)
	alice := e.state.Players["alice"]
	assert.True(t, alice.Punctured)
	punctures := sink.ofType(model.NotifyPuncture)
	require.Len(t, punctures, 1)
	assert.Equal(t, "alice", punctures[0].PlayerID)
	assert.Equal(t, 3, punctures[0].Level)

	// timing rules are unchanged, the flag clears on the next advance
	assert.Equal(t, 60, alice.RemainingSeconds)
	require.NoError(t, e.Advance("alice"))
	assert.False(t, e.state.Players["alice"].Punctured)
}

func TestEngine_GroupRestFiresOnThirdArrival(t *testing.T) {
	e, sink := newTestEngine(t, []string{"alice", "bob", "carol", "dave"})

	advanceTo(t, e, "alice", 3)
	advanceTo(t, e, "bob", 3)
	assert.Empty(t, sink.ofType(model.NotifyGroupRest))

	advanceTo(t, e, "carol", 3)
	rests := sink.ofType(model.NotifyGroupRest)
	require.Len(t, rests, 1)
	assert.Equal(t, 3, rests[0].Level)

	// the fourth arrival stays silent
	advanceTo(t, e, "dave", 3)
	assert.Len(t, sink.ofType(model.NotifyGroupRest), 1)
}
