package message

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRequest(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("GET /register HTTP/1.1\r\nHost: localhost\r\nAccept: text/html\r\n\r\n"))

	req, err := ReadRequest(r, DefaultMaxHeaderBytes)
	require.NoError(t, err)

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/register", req.Path)
	assert.Equal(t, Headers{{Name: "Host", Value: "localhost"}, {Name: "Accept", Value: "text/html"}}, req.Headers)
}

func TestReadHead_StopsAtBlankLine(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("POST /create/user HTTP/1.1\r\nContent-Length: 4\r\n\r\nbody"))

	head, err := ReadHead(r, DefaultMaxHeaderBytes)
	require.NoError(t, err)
	assert.Equal(t, "POST /create/user HTTP/1.1\r\nContent-Length: 4\r\n\r\n", head)

	// ボディはリーダーに残っている
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "body", string(rest))
}

func TestReadHead_EOF(t *testing.T) {
	_, err := ReadHead(bufio.NewReader(strings.NewReader("")), DefaultMaxHeaderBytes)
	assert.ErrorIs(t, err, io.EOF)

	// 途中までしか届かなかった場合は受信分を返す
	head, err := ReadHead(bufio.NewReader(strings.NewReader("GET / HTTP/1.1\r\nHost: x")), DefaultMaxHeaderBytes)
	require.NoError(t, err)
	assert.Equal(t, "GET / HTTP/1.1\r\nHost: x", head)
}

func TestReadHead_TooLarge(t *testing.T) {
	input := "GET / HTTP/1.1\r\nX-Big: " + strings.Repeat("a", 5000) + "\r\n\r\n"

	_, err := ReadHead(bufio.NewReader(strings.NewReader(input)), DefaultMaxHeaderBytes)
	assert.ErrorIs(t, err, ErrMessageTooLarge)

	// 上限を広げれば読める
	head, err := ReadHead(bufio.NewReader(strings.NewReader(input)), 8192)
	require.NoError(t, err)
	assert.Equal(t, input, head)
}

func TestDiscardBody(t *testing.T) {
	testCases := []struct {
		name     string
		headers  Headers
		max      int64
		wantRest string
	}{
		{"Content-Length分だけ読み捨てる", Headers{{Name: "Content-Length", Value: "5"}}, 1024, "rest"},
		{"名前は大文字小文字を区別する", Headers{{Name: "content-length", Value: "5"}}, 1024, "hellorest"},
		{"上限までしか読まない", Headers{{Name: "Content-Length", Value: "5"}}, 2, "llorest"},
		{"Content-Lengthが無ければ読まない", nil, 1024, "hellorest"},
		{"不正な値は無視する", Headers{{Name: "Content-Length", Value: "abc"}}, 1024, "hellorest"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := strings.NewReader("hellorest")
			req := &Request{Method: "POST", Path: "/", Headers: tc.headers}

			require.NoError(t, DiscardBody(r, req, tc.max))

			rest, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tc.wantRest, string(rest))
			assert.Empty(t, req.Body)
		})
	}
}

func TestDiscardBody_ShortBody(t *testing.T) {
	req := &Request{Method: "POST", Path: "/", Headers: Headers{{Name: "Content-Length", Value: "100"}}}

	assert.NoError(t, DiscardBody(strings.NewReader("short"), req, 1024))
}
