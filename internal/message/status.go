package message

import (
	"net/http"
	"strconv"
)

// StatusResponse はステータスコードだけを伝える簡易レスポンスを作成する
// 接続単位のエラーをクライアントに通知するために使う
func StatusResponse(code int) *Response {
	text := http.StatusText(code)
	body := strconv.Itoa(code) + " " + text + "\n"

	return NewResponse(strconv.Itoa(code), text, Headers{
		{Name: "Content-Type", Value: "text/plain; charset=utf-8"},
		{Name: "Content-Length", Value: strconv.Itoa(len(body))},
		{Name: "Connection", Value: "close"},
	}, body)
}

// OK は200レスポンスを作成する
func OK(contentType, body string) *Response {
	return NewResponse("200", "OK", Headers{
		{Name: "Content-Type", Value: contentType},
	}, body)
}
