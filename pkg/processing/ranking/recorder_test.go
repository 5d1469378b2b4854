package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder_Append(t *testing.T) {
	r := NewRecorder()
	assert.False(t, r.Append("alice", 3))
	assert.False(t, r.Append("bob", 3))
	assert.True(t, r.Append("carol", 3))

	assert.Equal(t, []string{"alice", "bob", "carol"}, r.Order())
	assert.Equal(t, 1, r.Position("alice"))
	assert.Equal(t, 3, r.Position("carol"))
	assert.Equal(t, 0, r.Position("dave"))
	assert.True(t, r.Contains("bob"))
	assert.False(t, r.Contains("dave"))
}

func TestRecorder_AppendIdempotent(t *testing.T) {
	r := NewRecorder()
	r.Append("alice", 2)
	r.Append("alice", 2)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1, r.Position("alice"))
}

func TestRecorder_AppendBlock(t *testing.T) {
	r := NewRecorder()
	r.Append("dave", 4)
	done := r.AppendBlock([]string{"carol", "alice", "bob"}, 4)
	assert.True(t, done)
	assert.Equal(t, []string{"dave", "carol", "alice", "bob"}, r.Order())
}

// the survivor count can shrink below the recorded finishers when a
// finished player is later disqualified; Append must still report done
func TestRecorder_AppendWithShrunkenSurvivorCount(t *testing.T) {
	r := NewRecorder()
	r.Append("alice", 3)
	r.Append("bob", 3)
	assert.True(t, r.Append("carol", 2))
}

func TestRecorder_OrderIsACopy(t *testing.T) {
	r := NewRecorder()
	r.Append("alice", 2)
	order := r.Order()
	order[0] = "mallory"
	assert.Equal(t, "alice", r.Order()[0])
}
