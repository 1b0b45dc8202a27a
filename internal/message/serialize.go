package message

import (
	"io"
	"strings"
)

const protocolVersion = "HTTP/1.1"

// String はリクエストを直列化する
// レスポンスと異なり、末尾の空行は付与しない
func (r *Request) String() string {
	var b strings.Builder
	b.WriteString(r.Method)
	b.WriteByte(' ')
	b.WriteString(r.Path)
	b.WriteByte(' ')
	b.WriteString(protocolVersion)
	b.WriteString(lineSeparator)
	r.Headers.writeTo(&b)
	return b.String()
}

// String はレスポンスを直列化する
func (r *Response) String() string {
	var b strings.Builder
	b.WriteString(protocolVersion)
	b.WriteByte(' ')
	b.WriteString(r.StatusCode)
	b.WriteByte(' ')
	b.WriteString(r.StatusMessage)
	b.WriteString(lineSeparator)
	r.Headers.writeTo(&b)
	b.WriteString(lineSeparator)
	b.WriteString(r.Body)
	return b.String()
}

// Bytes はレスポンスを直列化したバイト列を返す
func (r *Response) Bytes() []byte {
	return []byte(r.String())
}

// WriteTo はレスポンスをwに書き込む
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}

func (h Headers) writeTo(b *strings.Builder) {
	for _, header := range h {
		b.WriteString(header.Name)
		b.WriteString(headerSeparator)
		b.WriteString(header.Value)
		b.WriteString(lineSeparator)
	}
}
