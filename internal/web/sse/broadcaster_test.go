package sse

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/dicestake/internal/model"
	"github.com/mcoot/dicestake/internal/testutil"
)

func receive(t *testing.T, client *Client) string {
	t.Helper()
	select {
	case msg := <-client.send:
		return string(msg)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
		return ""
	}
}

func subscribe(t *testing.T, manager *HubManager, topic string) *Client {
	t.Helper()
	client := manager.Subscribe(topic, "test")
	t.Cleanup(client.Close)
	require.Eventually(t, func() bool { return client.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	return client
}

// dataOf joins the data lines of an SSE frame
func dataOf(frame string) string {
	var data []string
	for _, line := range strings.Split(frame, "\n") {
		if rest, ok := strings.CutPrefix(line, "data: "); ok {
			data = append(data, rest)
		}
	}
	return strings.Join(data, "\n")
}

func TestBroadcaster_PublishToFirehoseAndGame(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	all := subscribe(t, manager, TopicAll)
	game := subscribe(t, manager, GameTopic(3))

	broadcaster.Publish(context.Background(), model.Event{
		Type:    model.EventPlayerJoined,
		GameID:  3,
		Address: "acct_B",
		Payload: model.PlayerJoinedPayload{Player2: "acct_B"},
	})

	frame := receive(t, all)
	assert.True(t, strings.HasPrefix(frame, "event: player_joined\n"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(dataOf(frame)), &decoded))
	assert.Equal(t, "player_joined", decoded["type"])
	assert.Equal(t, float64(3), decoded["game_id"])

	assert.True(t, strings.HasPrefix(receive(t, game), "event: player_joined\n"))
	item := receive(t, game)
	assert.True(t, strings.HasPrefix(item, "event: event-item\n"))
	assert.Contains(t, item, "acct_B joined")
}

func TestBroadcaster_OtherGamesNotNotified(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	other := subscribe(t, manager, GameTopic(9))

	broadcaster.Publish(context.Background(), model.Event{Type: model.EventGameCreated, GameID: 1})

	select {
	case msg := <-other.send:
		t.Fatalf("unexpected message %q", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcaster_NoSubscribers(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	broadcaster := NewBroadcaster(manager, testutil.NopLogger())

	// Should not panic or create hubs
	broadcaster.Publish(context.Background(), model.Event{Type: model.EventGameCreated, GameID: 1})

	assert.Nil(t, manager.GetHub(TopicAll))
	assert.Nil(t, manager.GetHub(GameTopic(1)))
}

func TestRenderer_RenderEventItemEscapes(t *testing.T) {
	html, err := NewRenderer().RenderEventItem(context.Background(), model.Event{
		Type:    model.EventGameCreated,
		Payload: model.GameCreatedPayload{Player1: "<script>", StakeAmount: model.NewStake(5)},
	})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, `data-type="game_created"`)
	assert.Contains(t, html, "stake 5")
}
