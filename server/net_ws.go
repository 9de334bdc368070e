package server

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrConnClosed 连接已被本端关闭
var ErrConnClosed = errors.New("connection closed")

// WSConn WebSocket 会话：读协程把二进制帧放入 inbox，写由 Tick 协程同步完成
type WSConn struct {
	id           string
	ws           *websocket.Conn
	inbox        chan []byte
	writeTimeout time.Duration

	mu      sync.Mutex
	readErr error

	closeOnce sync.Once
	closed    chan struct{}
}

func NewWSConn(ws *websocket.Conn, inboxSize int, writeTimeout time.Duration) *WSConn {
	return &WSConn{
		id:           uuid.NewString(),
		ws:           ws,
		inbox:        make(chan []byte, inboxSize),
		writeTimeout: writeTimeout,
		closed:       make(chan struct{}),
	}
}

func (c *WSConn) ID() string { return c.id }

// TryReceive 非阻塞：有帧返回帧，无帧返回 RecvNone，读端结束后返回 RecvError
func (c *WSConn) TryReceive() Receive {
	select {
	case b, ok := <-c.inbox:
		if !ok {
			return Receive{Kind: RecvError, Err: c.err()}
		}
		return Receive{Kind: RecvData, Data: b}
	default:
		return Receive{Kind: RecvNone}
	}
}

// Send 写出一帧二进制消息，受写超时约束
func (c *WSConn) Send(b []byte) error {
	select {
	case <-c.closed:
		return ErrConnClosed
	default:
	}
	if c.writeTimeout > 0 {
		_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.ws.WriteMessage(websocket.BinaryMessage, b)
}

// Close 关闭底层连接；可重复调用
func (c *WSConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.ws.Close()
	})
	return err
}

func (c *WSConn) err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

// readPump 独立协程：读取客户端帧放入 inbox。
// 只保留二进制帧；inbox 满时丢弃最旧的一帧，保证最新目标可达。
func (c *WSConn) readPump(readLimit int64) {
	defer close(c.inbox)
	// 读端失败时关闭连接，下一次 Send 失败后由 Tick 移除
	defer c.Close()
	if readLimit > 0 {
		c.ws.SetReadLimit(readLimit)
	}
	for {
		mt, payload, err := c.ws.ReadMessage()
		if err != nil {
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		c.push(payload)
	}
}

func (c *WSConn) push(b []byte) {
	for {
		select {
		case c.inbox <- b:
			return
		default:
		}
		select {
		case <-c.inbox:
		default:
		}
	}
}

// Acceptor 接入 WebSocket 并排队，等待 Tick 协程通过 AcceptPending 领取
type Acceptor struct {
	upgrader websocket.Upgrader
	pending  chan Conn
	cfg      NetworkConfig
	metrics  *Metrics
}

func NewAcceptor(cfg NetworkConfig, m *Metrics) *Acceptor {
	if m == nil {
		m = &Metrics{}
	}
	return &Acceptor{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// 无鉴权：允许所有来源
				return true
			},
		},
		pending: make(chan Conn, cfg.AcceptQueue),
		cfg:     cfg,
		metrics: m,
	}
}

// ServeHTTP 处理 /ws 升级请求
func (a *Acceptor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if len(a.pending) >= cap(a.pending) {
		a.metrics.IncRejected()
		http.Error(w, "server busy", http.StatusServiceUnavailable)
		return
	}
	ws, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade 已经写回了错误响应
		Log.Warnf("upgrade error: remote=%s err=%v", r.RemoteAddr, err)
		return
	}

	c := NewWSConn(ws, a.cfg.InboxSize, a.cfg.WriteTimeout)
	select {
	case a.pending <- c:
		Log.Debugf("connection queued: session=%s remote=%s", c.ID(), r.RemoteAddr)
		go c.readPump(a.cfg.ReadLimit)
	default:
		a.metrics.IncRejected()
		Log.Warnf("accept queue full, dropping session=%s remote=%s", c.ID(), r.RemoteAddr)
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server busy"),
			time.Now().Add(time.Second))
		_ = c.Close()
	}
}

// AcceptPending 非阻塞领取一个已完成握手的连接
func (a *Acceptor) AcceptPending() (Conn, bool) {
	select {
	case c := <-a.pending:
		return c, true
	default:
		return nil, false
	}
}
