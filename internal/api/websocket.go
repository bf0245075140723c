// internal/api/websocket.go
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Corphon/CreativeForgeMCP/internal/models"
	"github.com/Corphon/CreativeForgeMCP/internal/utils"
)

// WebSocket 升级器配置
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 在生产环境中应该进行更严格的检查
		return true
	},
}

// FeedClient 表示一个订阅生成事件的 WebSocket 客户端
type FeedClient struct {
	conn     *websocket.Conn
	send     chan []byte
	closed   int32 // 原子操作标志，0=开启，1=关闭
	lastPing time.Time
}

// Close 安全关闭客户端连接
func (client *FeedClient) Close() {
	if atomic.CompareAndSwapInt32(&client.closed, 0, 1) {
		if client.conn != nil {
			client.conn.Close()
		}
	}
}

// IsClosed 检查连接是否已关闭
func (client *FeedClient) IsClosed() bool {
	return atomic.LoadInt32(&client.closed) == 1
}

// FeedHub 管理所有生成事件订阅连接，并向它们广播生成结果
type FeedHub struct {
	clients    map[*FeedClient]bool
	broadcast  chan []byte
	register   chan *FeedClient
	unregister chan *FeedClient
	mutex      sync.RWMutex
}

// NewFeedHub 创建并启动事件中心
func NewFeedHub() *FeedHub {
	hub := &FeedHub{
		clients:    make(map[*FeedClient]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *FeedClient, 16),
		unregister: make(chan *FeedClient, 16),
	}
	go hub.run()
	return hub
}

// run 处理注册、注销和广播
func (h *FeedHub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			client.Close()

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				if client.IsClosed() {
					continue
				}
				select {
				case client.send <- message:
				default:
					// 发送缓冲已满，丢弃该客户端
					go func(c *FeedClient) { h.unregister <- c }(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// BroadcastGeneration 向所有订阅者推送一次生成结果
func (h *FeedHub) BroadcastGeneration(result *models.GenerateResult) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":      "generation",
		"timestamp": time.Now().Format(time.RFC3339),
		"data":      result,
	})
	if err != nil {
		utils.GetLogger().Errorf("序列化广播消息失败: %v", err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		utils.GetLogger().Warn("广播通道已满，丢弃生成事件", nil)
	}
}

// ClientCount 返回当前连接数
func (h *FeedHub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// HandleFeed 升级连接并订阅生成事件流
func (h *FeedHub) HandleFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.GetLogger().Errorf("WebSocket升级失败: %v", err)
		return
	}

	client := &FeedClient{
		conn:     conn,
		send:     make(chan []byte, 64),
		lastPing: time.Now(),
	}
	h.register <- client

	go h.writeLoop(client)
	go h.readLoop(client)
}

// writeLoop 将消息和心跳写入连接
func (h *FeedHub) writeLoop(client *FeedClient) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		client.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop 消费入站消息并维护pong超时
func (h *FeedHub) readLoop(client *FeedClient) {
	defer func() {
		h.unregister <- client
	}()

	client.conn.SetReadLimit(512)
	client.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	client.conn.SetPongHandler(func(string) error {
		client.lastPing = time.Now()
		client.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}
