package message

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultMaxHeaderBytes はヘッダー部の既定の上限（2KiB）
const DefaultMaxHeaderBytes = 2048

// ReadHead はヘッダー終端の空行までを読み込んでテキストとして返す
//
// 空行・EOF・上限超過のいずれかで読み込みを終える。
// 何も受信せずにEOFになった場合は io.EOF を返す。
func ReadHead(r *bufio.Reader, maxHeaderBytes int) (string, error) {
	if maxHeaderBytes <= 0 {
		maxHeaderBytes = DefaultMaxHeaderBytes
	}

	var (
		head strings.Builder
		line []byte
	)
	for {
		chunk, err := r.ReadSlice('\n')
		if head.Len()+len(chunk) > maxHeaderBytes {
			return "", fmt.Errorf("%w: 上限 %d バイト", ErrMessageTooLarge, maxHeaderBytes)
		}
		head.Write(chunk)
		line = append(line, chunk...)

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			// 行の途中なので続きを読む
			continue
		case errors.Is(err, io.EOF):
			if head.Len() == 0 {
				return "", io.EOF
			}
			return head.String(), nil
		case err != nil:
			return "", err
		}

		if strings.TrimSpace(string(line)) == "" {
			return head.String(), nil
		}
		line = line[:0]
	}
}

// ReadRequest はrからヘッダー部を読み込み、Requestに解析する
func ReadRequest(r *bufio.Reader, maxHeaderBytes int) (*Request, error) {
	head, err := ReadHead(r, maxHeaderBytes)
	if err != nil {
		return nil, err
	}
	return ParseRequest(head)
}

// DiscardBody は宣言されたContent-Length分のボディを読み捨てる
//
// ボディは保持しない。読み捨てる量はmaxBodyBytesまでに制限する。
// Content-Lengthが無い、または不正な場合は何もしない。
// ヘッダー名は大文字小文字を区別する。
func DiscardBody(r io.Reader, req *Request, maxBodyBytes int64) error {
	length := contentLength(req.Headers)
	if length <= 0 {
		return nil
	}
	if length > maxBodyBytes {
		length = maxBodyBytes
	}

	if _, err := io.CopyN(io.Discard, r, length); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("ボディの読み捨てに失敗: %w", err)
	}
	return nil
}

func contentLength(headers Headers) int64 {
	value, ok := headers.Get("Content-Length")
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
