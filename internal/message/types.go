package message

import (
	"errors"
)

// Header はヘッダー名と値の組
type Header struct {
	Name  string // ヘッダー名（正規化しない）
	Value string // ヘッダー値（エスケープしない）
}

// Headers は順序付きのヘッダー列
type Headers []Header

// Get は名前が完全一致する最初のヘッダー値を返す
func (h Headers) Get(name string) (string, bool) {
	for _, header := range h {
		if header.Name == name {
			return header.Value, true
		}
	}
	return "", false
}

// Request はHTTPリクエストを表す
type Request struct {
	Method  string
	Path    string
	Query   string // 解析しないため常に空
	Headers Headers
	Body    string // 読み込まないため常に空
}

// Response はHTTPレスポンスを表す
type Response struct {
	StatusCode    string
	StatusMessage string
	Headers       Headers
	Body          string
}

var (
	ErrEmptyMethod = errors.New("メソッドが空です")
	ErrEmptyPath   = errors.New("パスが空です")
)

// NewRequest は新しいRequestを作成する
// メソッドとパスは空であってはならない
func NewRequest(method, path, query string, headers Headers, body string) (*Request, error) {
	if method == "" {
		return nil, ErrEmptyMethod
	}
	if path == "" {
		return nil, ErrEmptyPath
	}

	return &Request{
		Method:  method,
		Path:    path,
		Query:   query,
		Headers: headers,
		Body:    body,
	}, nil
}

// NewResponse は新しいResponseを作成する
func NewResponse(statusCode, statusMessage string, headers Headers, body string) *Response {
	return &Response{
		StatusCode:    statusCode,
		StatusMessage: statusMessage,
		Headers:       headers,
		Body:          body,
	}
}
