package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"hikyaku/internal/message"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig `yaml:"server"`
	Static StaticConfig `yaml:"static"`
	Status StatusConfig `yaml:"status"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig はTCPリスナーと接続処理の設定
type ServerConfig struct {
	Host string `yaml:"host"` // リッスンするホスト
	Port int    `yaml:"port"` // リッスンするポート番号

	// タイムアウト設定（0は無制限）
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // 読み込みタイムアウト
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // 書き込みタイムアウト
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // 処理中の接続を待つ時間

	// 資源の上限
	MaxConnections int   `yaml:"max_connections"`  // 同時接続数の上限（0は無制限）
	MaxHeaderBytes int   `yaml:"max_header_bytes"` // ヘッダー部の上限
	MaxBodyBytes   int64 `yaml:"max_body_bytes"`   // 読み捨てるボディの上限

	// エラー時の応答
	ErrorResponses   bool `yaml:"error_responses"`    // 解析・リソース失敗時にエラーステータスを返す
	NotFoundResponse bool `yaml:"not_found_response"` // 一致しないルートに404を返す
}

// StaticConfig は静的リソースの設定
type StaticConfig struct {
	Dir string `yaml:"dir"` // 空の場合は埋め込みの既定ページを使う
}

// StatusConfig はステータスエンドポイントの設定
type StatusConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level  string `yaml:"level"`  // logrusのレベル名
	Format string `yaml:"format"` // text または json
}

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeout:      10 * time.Second,
			WriteTimeout:     10 * time.Second,
			ShutdownTimeout:  5 * time.Second,
			MaxConnections:   256,
			MaxHeaderBytes:   message.DefaultMaxHeaderBytes,
			MaxBodyBytes:     1 << 20,
			ErrorResponses:   true,
			NotFoundResponse: false,
		},
		Static: StaticConfig{
			Dir: "static",
		},
		Status: StatusConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    8081,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load は設定を読み込む
// デフォルト値に環境変数を上書きする
func Load() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// LoadFile はYAMLファイルを読み込み、デフォルト値と環境変数に重ねる
// 優先順位: 環境変数 > ファイル > デフォルト値
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルの解析に失敗 (%s): %w", path, err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	var errs []error

	// サーバー設定の検証
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("無効なポート番号: %d", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("タイムアウトが負の値です"))
	}
	if c.Server.MaxConnections < 0 {
		errs = append(errs, fmt.Errorf("無効な同時接続数: %d", c.Server.MaxConnections))
	}
	if c.Server.MaxHeaderBytes <= 0 {
		errs = append(errs, fmt.Errorf("無効なヘッダー上限: %d", c.Server.MaxHeaderBytes))
	}
	if c.Server.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("無効なボディ上限: %d", c.Server.MaxBodyBytes))
	}

	// ステータスエンドポイントの検証
	if c.Status.Enabled && (c.Status.Port < 0 || c.Status.Port > 65535) {
		errs = append(errs, fmt.Errorf("無効なステータスポート番号: %d", c.Status.Port))
	}

	// ログ設定の検証
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("無効なログレベル: %w", err))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("無効なログ形式: %s", c.Log.Format))
	}

	return errors.Join(errs...)
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// StatusAddress はステータスエンドポイントのアドレスを返す
func (c *Config) StatusAddress() string {
	return net.JoinHostPort(c.Status.Host, strconv.Itoa(c.Status.Port))
}

// NewLogger は設定に従ってロガーを作成する
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}

// applyEnv は環境変数で設定を上書きする
func (c *Config) applyEnv() {
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsIntOrDefault("SERVER_PORT", c.Server.Port)
	c.Static.Dir = getEnvOrDefault("STATIC_DIR", c.Static.Dir)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
