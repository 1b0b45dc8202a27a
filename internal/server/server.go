package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"

	"hikyaku/internal/config"
	"hikyaku/internal/router"
)

// acceptBackoff は受け付けエラー後に次の受け付けまで待つ時間
const acceptBackoff = 10 * time.Millisecond

var (
	// ErrNotListening はListen前にServeが呼ばれた場合のエラー
	ErrNotListening = errors.New("リスナーが起動していません")
	// ErrShutdownTimeout は処理中の接続が時間内に終わらなかった場合のエラー
	ErrShutdownTimeout = errors.New("処理中の接続の終了待ちがタイムアウトしました")
)

// Server はTCPリスナーを管理する構造体
type Server struct {
	config  *config.Config
	router  *router.Router
	handler *ConnHandler
	logger  logrus.FieldLogger

	mu       sync.Mutex
	listener net.Listener
	closing  atomic.Bool

	conns sync.WaitGroup
	stats counters
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config, r *router.Router, logger logrus.FieldLogger) *Server {
	return &Server{
		config:  cfg,
		router:  r,
		handler: NewConnHandler(r, cfg.Server, logger),
		logger:  logger,
	}
}

// Listen は設定されたアドレスにバインドする
// バインドの失敗は呼び出し側で致命的エラーとして扱う
func (s *Server) Listen() error {
	addr := s.config.ServerAddress()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%s へのバインドに失敗: %w", addr, err)
	}

	// 同時接続数の上限
	if limit := s.config.Server.MaxConnections; limit > 0 {
		ln = netutil.LimitListener(ln, limit)
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"addr":            ln.Addr().String(),
		"max_connections": s.config.Server.MaxConnections,
	}).Info("TCPリスナーを起動しました")
	return nil
}

// Addr はバインドしたアドレスを返す（Listen前はnil）
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Routes は登録済みのルートを返す
func (s *Server) Routes() []router.Route {
	return s.router.Routes()
}

// Stats は集計値のスナップショットを返す
func (s *Server) Stats() Stats {
	return s.stats.snapshot()
}

// Serve は接続を受け付け、接続ごとにゴルーチンで処理する
// ctxのキャンセルまたはShutdownでリスナーが閉じられると nil を返す
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return ErrNotListening
	}

	// コンテキストのキャンセルでリスナーを閉じる
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.closeListener()
		case <-done:
		}
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.closing.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}

			// 受け付けエラーは記録して続行する
			s.stats.acceptErrors.Add(1)
			s.logger.WithError(err).Error("接続の受け付けに失敗")
			time.Sleep(acceptBackoff)
			continue
		}

		// closingの確認とAddをmuで囲み、Shutdown中のWaitと競合させない
		s.mu.Lock()
		if s.closing.Load() {
			s.mu.Unlock()
			_ = conn.Close()
			return nil
		}
		s.conns.Add(1)
		s.mu.Unlock()

		go s.serveConn(conn)
	}
}

// serveConn は接続を処理して結果を集計する
func (s *Server) serveConn(conn net.Conn) {
	defer s.conns.Done()

	s.stats.accepted.Add(1)
	s.stats.active.Add(1)
	defer s.stats.active.Add(-1)

	err := s.handler.Handle(conn)
	switch {
	case err == nil:
		s.stats.served.Add(1)
	case errors.Is(err, router.ErrNoRoute):
		s.stats.unmatched.Add(1)
	case errors.Is(err, io.EOF):
		s.stats.idle.Add(1)
	default:
		s.stats.failed.Add(1)
	}
}

// Start はサーバーを起動し、コンテキストのキャンセルかシグナルで停止する
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	// 受け付けループを別ゴルーチンで起動
	serveCh := make(chan error, 1)
	go func() {
		serveCh <- s.Serve(ctx)
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	serving := true
	select {
	case <-ctx.Done():
		s.logger.Info("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		s.logger.WithField("signal", sig.String()).Info("シグナルを受信しました")
	case err := <-serveCh:
		if err != nil {
			return err
		}
		serving = false
	}

	// グレースフルシャットダウン
	err := s.Shutdown()
	if serving {
		// 受け付けループの終了を待つ
		<-serveCh
	}
	return err
}

// Shutdown はリスナーを閉じ、処理中の接続の終了を待つ
func (s *Server) Shutdown() error {
	s.logger.Info("サーバーをシャットダウンしています...")
	s.closeListener()

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		<-done
	} else {
		select {
		case <-done:
		case <-time.After(timeout):
			return fmt.Errorf("%w (%s)", ErrShutdownTimeout, timeout)
		}
	}

	s.logger.Info("サーバーが正常にシャットダウンされました")
	return nil
}

// closeListener はリスナーを一度だけ閉じる
func (s *Server) closeListener() {
	s.mu.Lock()
	if !s.closing.CompareAndSwap(false, true) {
		s.mu.Unlock()
		return
	}
	ln := s.listener
	s.mu.Unlock()

	if ln == nil {
		return
	}
	if err := ln.Close(); err != nil {
		s.logger.WithError(err).Debug("リスナーのクローズに失敗")
	}
}
