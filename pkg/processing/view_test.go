//nolint:funlen // ok for tests
package processing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letapeapp/race-engine-go/pkg/model"
)

func standingIDs(view *model.RaceView) []string {
	ids := make([]string, 0, len(view.Standings))
	for _, s := range view.Standings {
		ids = append(ids, s.PlayerID)
	}
	return ids
}

func TestView_InitialSnapshot(t *testing.T) {
	e, _ := newTestEngine(t, []string{"alice", "bob"})
	view := e.View()

	assert.Equal(t, e.Key(), view.Key)
	assert.Equal(t, "test_stage", view.StageID)
	assert.Equal(t, "00:00", view.Elapsed)
	assert.False(t, view.SprintActive)
	assert.False(t, view.Completed)
	require.Len(t, view.Players, 2)

	alice := view.Players[0]
	assert.Equal(t, "alice", alice.ID)
	assert.Equal(t, 1, alice.Number)
	assert.Equal(t, "1:00", alice.Remaining)
	assert.Equal(t, "active", alice.Status)
	assert.Equal(t, "1/2", alice.Rank)
	assert.Zero(t, alice.AvgSecondsPerLevel)
	assert.Empty(t, alice.FinishedAt)
}

func TestView_StandingsOrder(t *testing.T) {
	e, _ := newTestEngine(t, []string{"alice", "bob", "carol", "dave"})

	// carol leads on level, alice and bob tie on level 2
	advanceTo(t, e, "carol", 3)
	advanceTo(t, e, "alice", 2)
	advanceTo(t, e, "bob", 2)
	for i := 0; i < 5; i++ {
		e.Tick()
	}
	// bob restarts his interval, overtaking alice on remaining time
	require.NoError(t, e.Revert("bob"))
	require.NoError(t, e.Advance("bob"))

	view := e.View()
	want := []model.StandingEntry{
		{Pos: 1, PlayerID: "carol", Name: "carol", Level: 3, RemainingSeconds: 55},
		{Pos: 2, PlayerID: "bob", Name: "bob", Level: 2, RemainingSeconds: 60},
		{Pos: 3, PlayerID: "alice", Name: "alice", Level: 2, RemainingSeconds: 55},
		{Pos: 4, PlayerID: "dave", Name: "dave", Level: 1, RemainingSeconds: 55},
	}
	if diff := cmp.Diff(want, view.Standings); diff != "" {
		t.Errorf("standings mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "2/4", view.Players[1].Rank)
}

func TestView_DNFDropsFromStandingsButStaysListed(t *testing.T) {
	e, _ := newTestEngine(t, []string{"alice", "bob"})
	for i := 0; i < 30; i++ {
		e.Tick()
	}
	require.NoError(t, e.Advance("alice"))
	for i := 0; i < 30; i++ {
		e.Tick()
	}
	require.Equal(t, model.StatusDNF, e.state.Players["bob"].Status)

	view := e.View()
	assert.Equal(t, []string{"alice"}, standingIDs(view))
	require.Len(t, view.Players, 2)
	assert.Equal(t, "dnf", view.Players[1].Status)
	assert.Empty(t, view.Players[1].Rank)
}

func TestView_FinishedPlayersRankFirst(t *testing.T) {
	e, _ := newTestEngine(t, []string{"alice", "bob", "carol"})
	advanceTo(t, e, "bob", 5)
	advanceTo(t, e, "alice", 5)
	require.NoError(t, e.OpenResolution())
	require.NoError(t, e.AssignOrder("alice", 1))
	require.NoError(t, e.AssignOrder("bob", 2))
	require.NoError(t, e.ConfirmResolution())

	// carol is still racing but ahead of nobody
	view := e.View()
	assert.Equal(t, []string{"alice", "bob", "carol"}, standingIDs(view))

	require.Len(t, view.FinishOrder, 2)
	assert.Equal(t, 1, view.FinishOrder[0].Pos)
	assert.Equal(t, "alice", view.FinishOrder[0].PlayerID)
	assert.False(t, view.Completed)
}

func TestView_AverageAndFinishTime(t *testing.T) {
	e, _ := newTestEngine(t, []string{"alice", "bob"})
	for i := 0; i < 10; i++ {
		e.Tick()
	}
	advanceTo(t, e, "alice", 3)
	view := e.View()
	assert.InDelta(t, 5.0, view.Players[0].AvgSecondsPerLevel, 0.001)

	advanceTo(t, e, "alice", 5)
	require.NoError(t, e.OpenResolution())
	require.NoError(t, e.AssignOrder("alice", 1))
	require.NoError(t, e.ConfirmResolution())

	view = e.View()
	alice := view.Players[0]
	assert.Equal(t, "finished", alice.Status)
	assert.Equal(t, "00:10", alice.FinishedAt)
	// the average freezes at the finish time
	assert.InDelta(t, 2.5, alice.AvgSecondsPerLevel, 0.001)
}

func TestView_CompletedRace(t *testing.T) {
	e, _ := newTestEngine(t, []string{"alice", "bob"})
	advanceTo(t, e, "alice", 5)
	advanceTo(t, e, "bob", 5)
	require.NoError(t, e.OpenResolution())
	require.NoError(t, e.AssignOrder("bob", 1))
	require.NoError(t, e.AssignOrder("alice", 2))
	require.NoError(t, e.ConfirmResolution())

	view := e.View()
	assert.True(t, view.Completed)
	assert.True(t, view.SprintCompleted)
	assert.Equal(t, []string{"bob", "alice"}, standingIDs(view))
	assert.Equal(t, "1/2", view.Players[1].Rank) // bob
}
