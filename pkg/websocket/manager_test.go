package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return &Manager{clients: make(map[uint]*Client)}
}

func addTestClient(m *Manager, userID uint, buffer int) *Client {
	c := &Client{
		UserID:   userID,
		Username: "user",
		Send:     make(chan []byte, buffer),
	}
	m.AddClient(c)
	return c
}

func TestAddAndRemoveClient(t *testing.T) {
	m := newTestManager()

	addTestClient(m, 1, 1)
	assert.True(t, m.IsOnline(1))
	assert.Equal(t, 1, m.OnlineCount())

	m.RemoveClient(1)
	assert.False(t, m.IsOnline(1))
	assert.Equal(t, 0, m.OnlineCount())

	// 重复移除不会panic
	m.RemoveClient(1)
}

func TestAddClient_ReplacesExisting(t *testing.T) {
	m := newTestManager()

	old := addTestClient(m, 1, 1)
	replacement := addTestClient(m, 1, 1)

	assert.Equal(t, 1, m.OnlineCount())

	// 旧连接的发送通道已关闭
	_, open := <-old.Send
	assert.False(t, open)

	m.Broadcast([]byte("hello"))
	assert.Equal(t, []byte("hello"), <-replacement.Send)
}

func TestBroadcast(t *testing.T) {
	m := newTestManager()

	c1 := addTestClient(m, 1, 1)
	c2 := addTestClient(m, 2, 1)

	m.Broadcast([]byte("hi all"))
	assert.Equal(t, []byte("hi all"), <-c1.Send)
	assert.Equal(t, []byte("hi all"), <-c2.Send)
}

func TestBroadcast_SlowConsumerDropped(t *testing.T) {
	m := newTestManager()

	slow := addTestClient(m, 1, 1)
	fast := addTestClient(m, 2, 2)

	// 填满慢消费者的缓冲
	m.Broadcast([]byte("first"))
	m.Broadcast([]byte("second"))

	require.Equal(t, []byte("first"), <-slow.Send)
	select {
	case msg := <-slow.Send:
		t.Fatalf("slow consumer should have dropped message, got %q", msg)
	default:
	}

	assert.Equal(t, []byte("first"), <-fast.Send)
	assert.Equal(t, []byte("second"), <-fast.Send)
}
