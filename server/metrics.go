package server

import (
	"sync/atomic"
)

// Metrics 记录运行期的关键指标（用于监控与调试）
type Metrics struct {
	TickCount        int64 // 统计的 Tick 次数
	TotalTickNs      int64 // Tick 累计耗时（纳秒）
	Entities         int64 // 当前在线实体数
	ConnsAccepted    int64 // 已接纳的连接数
	ConnsRejected    int64 // 因队列满或实体数上限被拒绝的连接数
	ConnsDropped     int64 // 因发送失败被移除的连接数
	CommandsApplied  int64 // 成功应用的移动指令数
	MalformedDropped int64 // 解码失败被丢弃的帧数
	RecvErrors       int64 // 读端错误（不触发断线）
	SendFailures     int64 // 发送失败次数
}

func (m *Metrics) IncAccepted() { atomic.AddInt64(&m.ConnsAccepted, 1) }
func (m *Metrics) IncRejected() { atomic.AddInt64(&m.ConnsRejected, 1) }
func (m *Metrics) IncCommands() { atomic.AddInt64(&m.CommandsApplied, 1) }
func (m *Metrics) IncMalformed() { atomic.AddInt64(&m.MalformedDropped, 1) }
func (m *Metrics) IncRecvErrors() { atomic.AddInt64(&m.RecvErrors, 1) }
func (m *Metrics) AddSendFailures(n int) {
	atomic.AddInt64(&m.SendFailures, int64(n))
	atomic.AddInt64(&m.ConnsDropped, int64(n))
}
func (m *Metrics) SetEntities(n int) { atomic.StoreInt64(&m.Entities, int64(n)) }
func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":        tick,
		"entities":          atomic.LoadInt64(&m.Entities),
		"conns_accepted":    atomic.LoadInt64(&m.ConnsAccepted),
		"conns_rejected":    atomic.LoadInt64(&m.ConnsRejected),
		"conns_dropped":     atomic.LoadInt64(&m.ConnsDropped),
		"commands_applied":  atomic.LoadInt64(&m.CommandsApplied),
		"malformed_dropped": atomic.LoadInt64(&m.MalformedDropped),
		"recv_errors":       atomic.LoadInt64(&m.RecvErrors),
		"send_failures":     atomic.LoadInt64(&m.SendFailures),
		"avg_tick_ms":       avgMs,
	}
}
