package rest

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveRace_InitialSnapshot(t *testing.T) {
	_, ts := newTestServer(t)
	created := createRace(t, ts)

	wsURL := fmt.Sprintf("%s/api/races/%s/live",
		strings.Replace(ts.URL, "http", "ws", 1), created.Key)
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg liveMessage
	require.NoError(t, oj.Unmarshal(data, &msg))
	assert.Equal(t, "view", msg.Type)
	assert.Equal(t, created.Key, msg.RaceKey)
	require.NotNil(t, msg.View)
	assert.Len(t, msg.View.Players, 2)
}

func TestLiveRace_UnknownRace(t *testing.T) {
	_, ts := newTestServer(t)
	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/races/unknown/live", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
