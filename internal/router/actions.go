package router

import (
	"fmt"
	"net/http"

	"hikyaku/internal/assets"
	"hikyaku/internal/message"
)

// CreateUserAck は /create/user に返す固定の応答（検証済みJSONではない）
const CreateUserAck = "{\r\n\tOperation: createUser\r\n\tStatus: success\r\n}\r\n"

// ResourceError は静的リソースの読み込み失敗を表す
type ResourceError struct {
	Name string
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("リソース %s を読み込めません: %v", e.Name, e.Err)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// Static はリクエストの度にリソースを読み込み、200で返すアクション
func Static(source assets.Source, name, contentType string) Action {
	return func(_ *message.Request) (*message.Response, error) {
		body, err := source.Read(name)
		if err != nil {
			return nil, &ResourceError{Name: name, Err: err}
		}
		return message.OK(contentType, body), nil
	}
}

// Acknowledge は固定のボディを200で返すアクション
func Acknowledge(body, contentType string) Action {
	return func(_ *message.Request) (*message.Response, error) {
		return message.OK(contentType, body), nil
	}
}

// Default は既定のルートを登録したRouterを作成する
func Default(source assets.Source) *Router {
	r := New()

	// 静的ページ
	r.Handle(http.MethodGet, "/", Static(source, assets.Home, "text/html"))
	r.Handle(http.MethodGet, "/index.css", Static(source, assets.Stylesheet, "text/css"))
	r.Handle(http.MethodGet, "/register", Static(source, assets.Register, "text/html"))

	// ユーザー作成の受付
	r.Handle(http.MethodPost, "/create/user", Acknowledge(CreateUserAck, "application/json"))

	return r
}
