package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"hikyaku/internal/config"
	"hikyaku/internal/message"
	"hikyaku/internal/router"
)

// State は接続処理の段階を表す
type State string

const (
	StateAccepted   State = "accepted"   // 受け付け済み
	StateReading    State = "reading"    // 読み込み中
	StateParsing    State = "parsing"    // 解析中
	StateRouting    State = "routing"    // ルーティング中
	StateResponding State = "responding" // 応答中
	StateClosed     State = "closed"     // 終了
)

// 応答後に未読の受信データを読み捨てる上限
const (
	lingerTimeout  = 500 * time.Millisecond
	lingerMaxBytes = 256 << 10
)

// ErrPanic は接続処理中のパニックを表す
var ErrPanic = errors.New("接続処理中にパニックが発生しました")

// Resolver はリクエストをレスポンスに解決する
type Resolver interface {
	Resolve(req *message.Request) (*message.Response, error)
}

// ConnHandler は1つの接続の読み込みから応答までを担う
type ConnHandler struct {
	resolver Resolver
	config   config.ServerConfig
	logger   logrus.FieldLogger
}

// NewConnHandler は新しいConnHandlerを作成する
func NewConnHandler(resolver Resolver, cfg config.ServerConfig, logger logrus.FieldLogger) *ConnHandler {
	return &ConnHandler{
		resolver: resolver,
		config:   cfg,
		logger:   logger,
	}
}

// Handle は接続を処理して閉じる
//
// 戻り値は接続の結果を表す。nilは応答済み、router.ErrNoRouteはルート不一致、
// io.EOFを含むエラーはリクエストを受信しなかったことを示す。
func (h *ConnHandler) Handle(conn net.Conn) (err error) {
	log := h.logger.WithFields(logrus.Fields{
		"conn_id": uuid.New().String(),
		"remote":  conn.RemoteAddr().String(),
	})
	state := StateAccepted

	defer func() {
		// パニックはこの接続だけの失敗として扱う
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, p)
		}
		if closeErr := conn.Close(); closeErr != nil {
			log.WithError(closeErr).Debug("接続のクローズに失敗")
		}

		entry := log.WithField("state", state)
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Debug("接続を閉じました")
	}()

	// 読み込み
	state = StateReading
	if h.config.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))
	}
	reader := bufio.NewReader(conn)
	head, err := message.ReadHead(reader, h.config.MaxHeaderBytes)
	if err != nil {
		if errors.Is(err, message.ErrMessageTooLarge) {
			log.WithError(err).Warn("ヘッダーが上限を超えました")
			if h.respondError(conn, log, http.StatusRequestHeaderFieldsTooLarge) {
				// 未読のまま閉じるとRSTで応答が破棄される
				closeWriteAndWait(conn, reader)
			}
		}
		return fmt.Errorf("リクエストの読み込みに失敗: %w", err)
	}

	// 解析
	state = StateParsing
	req, err := message.ParseRequest(head)
	if err != nil {
		log.WithError(err).Warn("不正なリクエストを受信しました")
		h.respondError(conn, log, http.StatusBadRequest)
		return err
	}
	log = log.WithFields(logrus.Fields{"method": req.Method, "path": req.Path})

	if err := message.DiscardBody(reader, req, h.config.MaxBodyBytes); err != nil {
		log.WithError(err).Debug("ボディを読み捨てられませんでした")
	}

	// ルーティング
	state = StateRouting
	res, err := h.resolver.Resolve(req)
	switch {
	case errors.Is(err, router.ErrNoRoute):
		log.Info("一致するルートがありません")
		if !h.config.NotFoundResponse {
			return err
		}
		res = message.StatusResponse(http.StatusNotFound)
	case err != nil:
		log.WithError(err).Error("レスポンスの生成に失敗")
		if errors.Is(err, fs.ErrNotExist) {
			h.respondError(conn, log, http.StatusNotFound)
		} else {
			h.respondError(conn, log, http.StatusInternalServerError)
		}
		return err
	}

	// 応答
	state = StateResponding
	if writeErr := h.write(conn, res); writeErr != nil {
		return fmt.Errorf("レスポンスの書き込みに失敗: %w", writeErr)
	}
	state = StateClosed

	log.WithField("status", res.StatusCode).Info("リクエストを処理しました")
	return err
}

// write はレスポンスを書き込んでフラッシュする
func (h *ConnHandler) write(conn net.Conn, res *message.Response) error {
	if h.config.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
	}

	w := bufio.NewWriter(conn)
	if _, err := res.WriteTo(w); err != nil {
		return err
	}
	return w.Flush()
}

// respondError はエラーステータスを返す（ErrorResponsesが無効なら何もしない）
// 書き込めた場合にtrueを返す
func (h *ConnHandler) respondError(conn net.Conn, log logrus.FieldLogger, code int) bool {
	if !h.config.ErrorResponses {
		return false
	}
	if err := h.write(conn, message.StatusResponse(code)); err != nil {
		log.WithError(err).Debug("エラーレスポンスの書き込みに失敗")
		return false
	}
	return true
}

// closeWriteAndWait は送信側だけを閉じ、相手が閉じるまで受信データを読み捨てる
// 読み捨てはlingerTimeoutとlingerMaxBytesで打ち切る
func closeWriteAndWait(conn net.Conn, r io.Reader) {
	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		if err := cw.CloseWrite(); err != nil {
			return
		}
	}
	_ = conn.SetReadDeadline(time.Now().Add(lingerTimeout))
	_, _ = io.CopyN(io.Discard, r, lingerMaxBytes)
}
