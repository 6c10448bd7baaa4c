package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client 代表一个WebSocket连接的用户
type Client struct {
	UserID   uint
	Username string
	Conn     *websocket.Conn
	Send     chan []byte
}

// Manager 管理所有在线连接并承担广播
// 聊天为尽力而为的广播回显：不落库、不保证顺序、
// 慢消费者的消息直接丢弃
type Manager struct {
	clients map[uint]*Client
	lock    sync.RWMutex
}

var manager = &Manager{
	clients: make(map[uint]*Client),
}

// GetManager 获取全局WebSocket管理器
func GetManager() *Manager {
	return manager
}

// AddClient 添加新连接；同一用户重复连接时旧连接被替换
func (m *Manager) AddClient(client *Client) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if old, ok := m.clients[client.UserID]; ok {
		close(old.Send)
	}
	m.clients[client.UserID] = client
}

// RemoveClient 移除连接
func (m *Manager) RemoveClient(userID uint) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if c, ok := m.clients[userID]; ok {
		close(c.Send)
		delete(m.clients, userID)
	}
}

// Broadcast 把消息广播给所有在线连接
// 发送通道已满的连接直接跳过
func (m *Manager) Broadcast(msg []byte) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	for _, client := range m.clients {
		select {
		case client.Send <- msg:
		default:
			// 慢消费者，丢弃
		}
	}
}

// IsOnline 判断用户是否在线
func (m *Manager) IsOnline(userID uint) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

// OnlineCount 在线连接数
func (m *Manager) OnlineCount() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.clients)
}
