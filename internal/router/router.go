// Package router は (メソッド, パス) の組とアクションを対応付けます。
//
// 照合は完全一致のみで、パターンや末尾スラッシュの正規化は行いません。
package router

import (
	"errors"
	"fmt"
	"sort"

	"hikyaku/internal/message"
)

// ErrNoRoute は一致するルートが無い場合のエラー
var ErrNoRoute = errors.New("一致するルートがありません")

// Route はルートのキー
type Route struct {
	Method string
	Path   string
}

func (r Route) String() string {
	return r.Method + " " + r.Path
}

// Action はリクエストからレスポンスを生成する
type Action func(req *message.Request) (*message.Response, error)

// Router は宣言的なルート表
type Router struct {
	routes map[Route]Action
}

// New は空のRouterを作成する
func New() *Router {
	return &Router{routes: make(map[Route]Action)}
}

// Handle はルートを登録する
// 同じルートを再登録した場合は後勝ち
func (r *Router) Handle(method, path string, action Action) {
	r.routes[Route{Method: method, Path: path}] = action
}

// Lookup は完全一致するアクションを返す
func (r *Router) Lookup(method, path string) (Action, bool) {
	action, found := r.routes[Route{Method: method, Path: path}]
	return action, found
}

// Resolve はリクエストに対応するアクションを実行する
// 一致しない場合は ErrNoRoute を返す
func (r *Router) Resolve(req *message.Request) (*message.Response, error) {
	action, found := r.Lookup(req.Method, req.Path)
	if !found {
		return nil, fmt.Errorf("%w: %s %s", ErrNoRoute, req.Method, req.Path)
	}
	return action(req)
}

// Routes は登録済みのルートをパス・メソッド順に返す
func (r *Router) Routes() []Route {
	routes := make([]Route, 0, len(r.routes))
	for route := range r.routes {
		routes = append(routes, route)
	}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return routes[i].Method < routes[j].Method
	})
	return routes
}
