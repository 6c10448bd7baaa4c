package websocket

import (
	"net/http"
	"strings"
	"time"

	"chat-app/config"
	"chat-app/pkg/jwt"
	"chat-app/pkg/logger"
	"chat-app/pkg/redis"
	"chat-app/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许跨域
	},
}

// NewHandler 创建WebSocket路由处理函数
// 认证方式：?token=xxx 或 Sec-WebSocket-Protocol: Bearer <token>
// 连接建立后，收到的每条文本消息都会广播给所有在线连接
func NewHandler(jwtSvc *jwt.JWTService, wsCfg config.WebSocketConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if tokenString == "" {
			tokenString = strings.TrimPrefix(c.GetHeader("Sec-WebSocket-Protocol"), "Bearer ")
		}
		if tokenString == "" {
			response.Unauthorized(c, "access token required")
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			response.Forbidden(c, "invalid token")
			return
		}

		// 回显子协议，避免客户端提示 "Server sent no subprotocol"
		respHeader := http.Header{}
		if protocol := c.GetHeader("Sec-WebSocket-Protocol"); protocol != "" {
			respHeader.Set("Sec-WebSocket-Protocol", protocol)
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, respHeader)
		if err != nil {
			return
		}

		client := &Client{
			UserID:   claims.UserID,
			Username: claims.Username,
			Conn:     conn,
			Send:     make(chan []byte, wsCfg.SendBuffer),
		}
		GetManager().AddClient(client)
		_ = redis.SetUserPresence(client.UserID, client.Username, "online")

		logger.Info("WebSocket连接建立",
			zap.Uint("user_id", client.UserID),
			zap.String("username", client.Username),
		)

		defer func() {
			GetManager().RemoveClient(client.UserID)
			_ = redis.SetUserPresence(client.UserID, client.Username, "offline")
			_ = conn.Close()
			logger.Info("WebSocket连接关闭", zap.Uint("user_id", client.UserID))
		}()

		// 写协程 + 定时发送ping心跳
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(wsCfg.PingInterval)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.Send:
					if !ok {
						return
					}
					_ = conn.WriteMessage(websocket.TextMessage, msg)
				case <-ticker.C:
					if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
						return
					}
					_ = redis.RefreshUserPresence(client.UserID)
				case <-done:
					return
				}
			}
		}()

		// 读循环：收到任何文本消息直接广播给所有连接
		_ = conn.SetReadDeadline(time.Now().Add(wsCfg.ReadTimeout))
		conn.SetPongHandler(func(appData string) error {
			return conn.SetReadDeadline(time.Now().Add(wsCfg.ReadTimeout))
		})
		for {
			msgType, payload, err := conn.ReadMessage()
			if err != nil {
				break
			}
			_ = conn.SetReadDeadline(time.Now().Add(wsCfg.ReadTimeout))
			if msgType == websocket.TextMessage {
				GetManager().Broadcast(payload)
			}
		}
		close(done)
	}
}
