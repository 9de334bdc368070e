package server

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
)

// Loop 单协程驱动的 Tick 循环：接纳 → 等待 → 接收 → 推进 → 广播 → 清理。
// Registry 只在这里被访问；其他协程通过通道与其交互。
type Loop struct {
	reg         *Registry
	src         ConnSource
	interval    time.Duration
	maxEntities int
	metrics     *Metrics

	updates chan Steering
	current atomic.Pointer[Steering]

	failed []int
}

func NewLoop(reg *Registry, src ConnSource, cfg Config, m *Metrics) *Loop {
	if m == nil {
		m = &Metrics{}
	}
	l := &Loop{
		reg:         reg,
		src:         src,
		interval:    cfg.Network.TickInterval,
		maxEntities: cfg.World.MaxEntities,
		metrics:     m,
		updates:     make(chan Steering, 8),
	}
	s := reg.Steering()
	l.current.Store(&s)
	return l
}

// Run 运行直到 ctx 取消；退出前关闭全部连接，返回关闭时的错误
func (l *Loop) Run(ctx context.Context) error {
	Log.Infof("tick loop running: interval=%s policy=%s", l.interval, l.reg.Steering().Policy)
	timer := time.NewTimer(l.interval)
	defer timer.Stop()
	for {
		l.AcceptPending()

		// 固定间隔休眠是唯一的节拍来源
		select {
		case <-ctx.Done():
			return l.shutdown()
		case <-timer.C:
		}
		l.Tick()
		timer.Reset(l.interval)
	}
}

// AcceptPending 领取全部已排队的连接并为每个连接创建实体，不阻塞
func (l *Loop) AcceptPending() {
	for {
		c, ok := l.src.AcceptPending()
		if !ok {
			return
		}
		if l.reg.Len() >= l.maxEntities {
			l.metrics.IncRejected()
			Log.Warnf("entity limit %d reached, closing session=%s", l.maxEntities, c.ID())
			_ = c.Close()
			continue
		}
		id := l.reg.Add(c)
		l.metrics.IncAccepted()
		Log.Infof("entity joined: id=%d session=%s", id, c.ID())
	}
	l.metrics.SetEntities(l.reg.Len())
}

// Tick 执行一次完整的仿真与广播
func (l *Loop) Tick() {
	start := time.Now()
	l.applySteeringUpdates()
	l.receiveAll()
	l.reg.TickAll()
	l.broadcast()
	l.reap()
	l.metrics.SetEntities(l.reg.Len())
	l.metrics.AddTick(time.Since(start).Nanoseconds())
}

// broadcast 同一份快照发给所有连接；发送失败的下标先记下，Tick 末尾统一移除
func (l *Loop) broadcast() {
	l.failed = l.failed[:0]
	if l.reg.Len() == 0 {
		return
	}
	snap := l.reg.Snapshot()
	for i := 0; i < l.reg.Len(); i++ {
		sl := l.reg.At(i)
		if err := sl.Conn.Send(snap); err != nil {
			Log.Infof("send failed, dropping entity=%d session=%s err=%v", sl.Entity.ID, sl.Conn.ID(), err)
			l.failed = append(l.failed, i)
		}
	}
}

func (l *Loop) reap() {
	if len(l.failed) == 0 {
		return
	}
	l.metrics.AddSendFailures(len(l.failed))
	if err := l.reg.RemoveBatch(l.failed); err != nil {
		Log.Debugf("close after send failure: %v", err)
	}
}

// UpdateSteering 排队一次运动参数更新，在下一个 Tick 开始时生效；队列满返回 false
func (l *Loop) UpdateSteering(s Steering) bool {
	select {
	case l.updates <- s:
		return true
	default:
		return false
	}
}

// Steering 返回当前生效的运动参数（可在任意协程调用）
func (l *Loop) Steering() Steering {
	return *l.current.Load()
}

func (l *Loop) applySteeringUpdates() {
	for {
		select {
		case s := <-l.updates:
			l.reg.SetSteering(s)
			l.current.Store(&s)
			Log.Infof("steering updated: policy=%s threshold=%.2f speed=%.2f turnRate=%.2f",
				s.Policy, s.ArrivalThreshold, s.Speed, s.TurnRate)
		default:
			return
		}
	}
}

func (l *Loop) shutdown() error {
	var errs error
	for {
		c, ok := l.src.AcceptPending()
		if !ok {
			break
		}
		errs = multierr.Append(errs, c.Close())
	}
	n := l.reg.Len()
	errs = multierr.Append(errs, l.reg.CloseAll())
	l.metrics.SetEntities(0)
	Log.Infof("tick loop stopped, closed %d connections", n)
	return errs
}
