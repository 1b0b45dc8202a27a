// Package assets は静的リソースの読み込み元を提供します。
//
// リソースはリクエストの度に読み込まれ、キャッシュはしません。
// ディレクトリが指定されない場合は、バイナリに埋め込んだ既定のページを使います。
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// 既定のリソース名
const (
	Home       = "index.html"
	Stylesheet = "index.css"
	Register   = "register.html"
)

//go:embed all:public
var embedFS embed.FS

// Source は名前付きの静的リソースをテキストとして読み込む
type Source interface {
	Read(name string) (string, error)
}

// FSSource はfs.FSからリソースを読み込むSource
type FSSource struct {
	fsys fs.FS
	root string // ログ用の表示名
}

// NewFS はfs.FSを読み込み元とするSourceを作成する
func NewFS(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys, root: "fs"}
}

// NewDir はディスク上のディレクトリを読み込み元とするSourceを作成する
func NewDir(dir string) *FSSource {
	return &FSSource{fsys: os.DirFS(dir), root: dir}
}

// Embedded は埋め込みの既定ページを読み込み元とするSourceを返す
func Embedded() (*FSSource, error) {
	// public のサブディレクトリを取得
	sub, err := fs.Sub(embedFS, "public")
	if err != nil {
		return nil, fmt.Errorf("埋め込み静的ファイルシステムの作成に失敗: %w", err)
	}
	return &FSSource{fsys: sub, root: "embedded"}, nil
}

// Open は設定されたディレクトリに応じたSourceを返す
//
// dirが空、または存在しない場合は埋め込みの既定ページを使う。
// dirがディレクトリでない場合はエラーを返す。
func Open(dir string) (*FSSource, error) {
	if dir == "" {
		return Embedded()
	}

	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Embedded()
	case err != nil:
		return nil, fmt.Errorf("静的リソースのディレクトリ %s を確認できません: %w", dir, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%s はディレクトリではありません", dir)
	}
	return NewDir(dir), nil
}

// Read は指定された名前のリソースを読み込む
// 存在しない場合のエラーは errors.Is(err, fs.ErrNotExist) を満たす
func (s *FSSource) Read(name string) (string, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return "", fmt.Errorf("リソース %s/%s の読み込みに失敗: %w", s.root, name, err)
	}
	return string(data), nil
}

// String は読み込み元の表示名を返す
func (s *FSSource) String() string {
	return s.root
}
