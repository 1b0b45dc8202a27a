// Package status は、TCPリスナーの稼働状況をHTTPで公開します。
//
// ヘルスチェックと集計値の取得のみを提供し、本体の接続処理には関与しません。
package status

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hikyaku/internal/config"
	"hikyaku/internal/router"
	"hikyaku/internal/server"
)

// Reporter は公開する稼働情報の提供元
type Reporter interface {
	Addr() net.Addr
	Routes() []router.Route
	Stats() server.Stats
}

// HealthResponse はヘルスチェックの応答
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse はステータス取得の応答
type StatusResponse struct {
	Status      string       `json:"status"`
	Address     string       `json:"address"`
	Routes      []string     `json:"routes"`
	Connections server.Stats `json:"connections"`
	Uptime      string       `json:"uptime"`
	Timestamp   time.Time    `json:"timestamp"`
}

// Handler はステータスエンドポイントの実装
type Handler struct {
	reporter Reporter
	started  time.Time
}

// NewHandler は新しいHandlerを作成する
func NewHandler(reporter Reporter) *Handler {
	return &Handler{
		reporter: reporter,
		started:  time.Now(),
	}
}

// HealthCheck はヘルスチェックエンドポイントの実装
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

// GetStatus はシステム状態取得エンドポイントの実装
func (h *Handler) GetStatus(c *gin.Context) {
	response := StatusResponse{
		Status:      "running",
		Connections: h.reporter.Stats(),
		Uptime:      time.Since(h.started).Truncate(time.Second).String(),
		Timestamp:   time.Now(),
	}

	// リスナーが起動していない場合はアドレスを空にする
	if addr := h.reporter.Addr(); addr != nil {
		response.Address = addr.String()
	} else {
		response.Status = "stopped"
	}

	routes := h.reporter.Routes()
	response.Routes = make([]string, 0, len(routes))
	for _, route := range routes {
		response.Routes = append(response.Routes, route.String())
	}

	c.JSON(http.StatusOK, response)
}

// NewEngine はステータスエンドポイントを登録したginエンジンを作成する
func NewEngine(reporter Reporter, logger logrus.FieldLogger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	h := NewHandler(reporter)
	engine.GET("/health", h.HealthCheck)
	engine.GET("/api/status", h.GetStatus)

	return engine
}

// requestLogger はginのリクエストをlogrusに出力するミドルウェア
func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("ステータスエンドポイントへのリクエスト")
	}
}

// Server はステータスエンドポイントのHTTPサーバー
type Server struct {
	httpServer *http.Server
	logger     logrus.FieldLogger
}

// New は新しいServerを作成する
func New(cfg *config.Config, reporter Reporter, logger logrus.FieldLogger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.StatusAddress(),
			Handler:           NewEngine(reporter, logger),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start はサーバーを起動し、コンテキストがキャンセルされるまで待つ
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.httpServer.Addr).Info("ステータスエンドポイントを起動しています")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("ステータスエンドポイントの起動に失敗: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	// 5秒のタイムアウトを設定
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ステータスエンドポイントのシャットダウンに失敗: %w", err)
	}
	return nil
}
