package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"hikyaku/internal/assets"
	"hikyaku/internal/config"
	"hikyaku/internal/router"
	"hikyaku/internal/server"
	"hikyaku/internal/status"
)

func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// 位置引数でホストとポートを上書き: hikyaku <host> <port>
	switch len(os.Args) {
	case 1:
	case 3:
		port, err := strconv.Atoi(os.Args[2])
		if err != nil {
			logrus.Fatalf("ポート番号が不正です: %s", os.Args[2])
		}
		cfg.Server.Host = os.Args[1]
		cfg.Server.Port = port
	default:
		fmt.Fprintln(os.Stderr, "使用方法: hikyaku <host> <port>")
		os.Exit(2)
	}

	logger := cfg.NewLogger()

	// 静的リソースの読み込み元（ディレクトリが無ければ埋め込みの既定ページ）
	source, err := assets.Open(cfg.Static.Dir)
	if err != nil {
		logger.Fatalf("静的リソースの準備に失敗しました: %v", err)
	}
	logger.WithField("static", source.String()).Info("静的リソースの読み込み元")

	// サーバーを作成
	srv := server.New(cfg, router.Default(source), logger)

	// コンテキストを作成
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Status.Enabled {
		go func() {
			if err := status.New(cfg, srv, logger).Start(ctx); err != nil {
				logger.WithError(err).Error("ステータスエンドポイントが停止しました")
			}
		}()
	}

	// サーバーを起動（バインドの失敗は致命的）
	if err := srv.Start(ctx); err != nil {
		logger.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
