package message

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRequestLine はリクエスト行にパスが含まれていない場合のエラー
	ErrMalformedRequestLine = errors.New("不正なリクエスト行")
	// ErrMalformedHeader はヘッダー行に ": " 区切りが無い場合のエラー
	ErrMalformedHeader = errors.New("不正なヘッダー行")
	// ErrInvalidText は入力がテキストとして解釈できない場合のエラー
	ErrInvalidText = errors.New("テキストとして解釈できないバイト列")
	// ErrMessageTooLarge はヘッダー部が上限を超えた場合のエラー
	ErrMessageTooLarge = errors.New("メッセージが大きすぎます")
)

// ParseError は解析に失敗した行の情報を保持する
type ParseError struct {
	Line int    // 1始まりの行番号（0は入力全体）
	Text string // 問題の行
	Err  error  // 原因となるセンチネルエラー
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("リクエストの解析に失敗: %v", e.Err)
	}
	return fmt.Sprintf("リクエストの解析に失敗 (%d行目 %q): %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
