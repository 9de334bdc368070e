package server

import (
	"encoding/json"
	"net/http"
)

// Admin 管理与监控接口
type Admin struct {
	loop    *Loop
	metrics *Metrics
}

func NewAdmin(loop *Loop, m *Metrics) *Admin {
	return &Admin{loop: loop, metrics: m}
}

// Register 挂载 /metrics、/admin/steering、/healthz
func (a *Admin) Register(mux *http.ServeMux) {
	mux.HandleFunc("/metrics", a.HandleMetrics)
	mux.HandleFunc("/admin/steering", a.HandleSteering)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
}

type steeringBody struct {
	Policy           *string  `json:"policy,omitempty"`
	ArrivalThreshold *float64 `json:"arrivalThreshold,omitempty"`
	Speed            *float64 `json:"speed,omitempty"`
	TurnRate         *float64 `json:"turnRate,omitempty"`
}

func steeringView(s Steering) steeringBody {
	policy := string(s.Policy)
	return steeringBody{
		Policy:           &policy,
		ArrivalThreshold: &s.ArrivalThreshold,
		Speed:            &s.Speed,
		TurnRate:         &s.TurnRate,
	}
}

// HandleSteering 读取或更新运动参数（热更新，下一 Tick 生效）
// GET  /admin/steering  返回当前参数
// POST /admin/steering  以 JSON 载荷更新部分字段
func (a *Admin) HandleSteering(w http.ResponseWriter, r *http.Request) {
	cur := a.loop.Steering()
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, steeringView(cur))
	case http.MethodPost:
		var body steeringBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		next := SteeringConfig{
			Policy:           string(cur.Policy),
			ArrivalThreshold: cur.ArrivalThreshold,
			Speed:            cur.Speed,
			TurnRate:         cur.TurnRate,
		}
		if body.Policy != nil {
			next.Policy = *body.Policy
		}
		if body.ArrivalThreshold != nil {
			next.ArrivalThreshold = *body.ArrivalThreshold
		}
		if body.Speed != nil {
			next.Speed = *body.Speed
		}
		if body.TurnRate != nil {
			next.TurnRate = *body.TurnRate
		}
		s, err := next.Build()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !a.loop.UpdateSteering(s) {
			http.Error(w, "update queue full", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"ok": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMetrics 输出运行指标
// GET /metrics
func (a *Admin) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"steering": steeringView(a.loop.Steering()),
		"metrics":  a.metrics.Snapshot(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
