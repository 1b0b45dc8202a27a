// Package main はhikyakuサーバーコマンドの実装です
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"hikyaku/internal/assets"
	"hikyaku/internal/config"
	"hikyaku/internal/router"
	"hikyaku/internal/server"
	"hikyaku/internal/status"
)

func main() {
	// コマンドラインオプション
	var (
		host       = flag.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port       = flag.Int("port", 0, "サーバーのポート (デフォルト: 8080)")
		configPath = flag.String("config", "", "YAML設定ファイルのパス")
		staticDir  = flag.String("static", "", "静的リソースのディレクトリ (デフォルト: static)")
		embedded   = flag.Bool("embedded", false, "埋め込みの既定ページを配信")
		statusOn   = flag.Bool("status", false, "ステータスエンドポイントを有効化")
		help       = flag.Bool("help", false, "ヘルプを表示")
	)

	flag.Parse()

	// ヘルプ表示
	if *help {
		fmt.Println("hikyaku")
		fmt.Println()
		fmt.Println("使用方法:")
		fmt.Println("  server [オプション]")
		fmt.Println()
		fmt.Println("オプション:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	// 設定を読み込む
	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logrus.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *staticDir != "" {
		cfg.Static.Dir = *staticDir
	}
	if *embedded {
		cfg.Static.Dir = ""
	}
	if *statusOn {
		cfg.Status.Enabled = true
	}

	logger := cfg.NewLogger()

	// 静的リソースの読み込み元（ディレクトリが無ければ埋め込みの既定ページ）
	source, err := assets.Open(cfg.Static.Dir)
	if err != nil {
		logger.Fatalf("静的リソースの準備に失敗しました: %v", err)
	}
	logger.WithField("static", source.String()).Info("静的リソースの読み込み元")

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

	// サーバーを起動
	logger.Infof("hikyaku サーバーを起動します: %s", cfg.ServerAddress())
	if err := srv.Start(ctx); err != nil {
		logger.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
