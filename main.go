package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deadfish/server"
)

// deadfish 入口：加载配置，启动 WebSocket 监听与 Tick 循环
func main() {
	var (
		cfgPath string
		addr    string
	)
	flag.StringVar(&cfgPath, "config", "", "config file (.yaml or .toml); defaults are used when empty")
	flag.StringVar(&addr, "addr", "", "listen address, overrides network.bind_address")
	flag.Parse()

	cfg, err := server.LoadConfig(cfgPath)
	if err != nil {
		panic(err)
	}
	if addr != "" {
		cfg.Network.BindAddress = addr
	}
	if err := server.InitLogger(cfg.Logging); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	steer, err := cfg.Steering.Build()
	if err != nil {
		server.Log.Fatalf("steering: %v", err)
	}

	metrics := &server.Metrics{}
	acceptor := server.NewAcceptor(cfg.Network, metrics)
	reg := server.NewRegistry(steer, cfg.World)
	loop := server.NewLoop(reg, acceptor, cfg, metrics)

	mux := http.NewServeMux()
	mux.Handle("/ws", acceptor)
	server.NewAdmin(loop, metrics).Register(mux)

	// 绑定失败直接退出
	ln, err := net.Listen("tcp", cfg.Network.BindAddress)
	if err != nil {
		server.Log.Fatalf("listen %s: %v", cfg.Network.BindAddress, err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		server.Log.Infof("deadfish listening on ws://%s/ws", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Log.Fatalf("serve: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loop.Run(ctx); err != nil {
		server.Log.Warnf("closing connections: %v", err)
	}
	server.Log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
