package server

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var errBrokenPipe = errors.New("broken pipe")

// fakeConn 内存连接：入站帧预先排好，发送可注入失败
type fakeConn struct {
	id      string
	frames  [][]byte
	recvErr error
	sendErr error
	sent    [][]byte
	closed  int
}

func newFakeConn(id string) *fakeConn { return &fakeConn{id: id} }

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) TryReceive() Receive {
	if len(f.frames) > 0 {
		b := f.frames[0]
		f.frames = f.frames[1:]
		return Receive{Kind: RecvData, Data: b}
	}
	if f.recvErr != nil {
		return Receive{Kind: RecvError, Err: f.recvErr}
	}
	return Receive{Kind: RecvNone}
}

func (f *fakeConn) Send(b []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, b)
	return nil
}

func (f *fakeConn) Close() error {
	f.closed++
	return nil
}

// fakeSource 可在测试协程与 Tick 协程间共享的连接队列
type fakeSource struct {
	mu    sync.Mutex
	queue []Conn
}

func (s *fakeSource) push(cs ...Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, cs...)
}

func (s *fakeSource) AcceptPending() (Conn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil, false
	}
	c := s.queue[0]
	s.queue = s.queue[1:]
	return c, true
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Logging.Path = ""
	cfg.Logging.Stderr = false
	return cfg
}

func newTestLoop(t testing.TB, conns ...*fakeConn) (*Loop, *Registry, *Metrics) {
	t.Helper()
	cfg := testConfig()
	steer, err := cfg.Steering.Build()
	require.NoError(t, err)
	src := &fakeSource{}
	for _, c := range conns {
		src.push(c)
	}
	reg := NewRegistry(steer, cfg.World)
	m := &Metrics{}
	l := NewLoop(reg, src, cfg, m)
	l.AcceptPending()
	return l, reg, m
}
