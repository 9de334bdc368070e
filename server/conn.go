package server

// RecvKind 非阻塞接收的三种结果
type RecvKind int

const (
	RecvNone  RecvKind = iota // 暂无数据
	RecvData                  // 收到一帧
	RecvError                 // 读端已失败；不作为断线依据，仅记录
)

func (k RecvKind) String() string {
	switch k {
	case RecvData:
		return "data"
	case RecvError:
		return "error"
	default:
		return "none"
	}
}

// Receive TryReceive 的返回值
type Receive struct {
	Kind RecvKind
	Data []byte
	Err  error
}

// Conn 一个传输会话。除 Close 外的方法只允许 Tick 协程调用。
type Conn interface {
	// ID 会话标识，仅用于日志
	ID() string
	// TryReceive 非阻塞取出一帧
	TryReceive() Receive
	// Send 阻塞发送一帧；返回错误即表示该连接应被拆除
	Send(b []byte) error
	Close() error
}

// ConnSource 新连接来源，AcceptPending 必须立即返回
type ConnSource interface {
	AcceptPending() (Conn, bool)
}
