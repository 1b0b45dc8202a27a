package message

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest("GET /index.css HTTP/1.1\r\nHost: localhost\r\n\r\n")
	require.NoError(t, err)

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/index.css", req.Path)
	assert.Equal(t, Headers{{Name: "Host", Value: "localhost"}}, req.Headers)
	assert.Empty(t, req.Query)
	assert.Empty(t, req.Body)
}

func TestParseRequest_EdgeCases(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		wantMethod  string
		wantPath    string
		wantHeaders Headers
	}{
		{
			name:       "バージョン以降のトークンは無視する",
			input:      "POST /create/user HTTP/1.1 extra\r\n\r\n",
			wantMethod: "POST",
			wantPath:   "/create/user",
		},
		{
			name:       "バージョンが無くても受け付ける",
			input:      "GET /\r\n\r\n",
			wantMethod: "GET",
			wantPath:   "/",
		},
		{
			name:       "クエリ文字列は分離しない",
			input:      "GET /search?q=go HTTP/1.1\r\n\r\n",
			wantMethod: "GET",
			wantPath:   "/search?q=go",
		},
		{
			name:       "重複ヘッダーは順序どおりに保持する",
			input:      "GET / HTTP/1.1\r\nAccept: a\r\naccept: b\r\nAccept: c\r\n\r\n",
			wantMethod: "GET",
			wantPath:   "/",
			wantHeaders: Headers{
				{Name: "Accept", Value: "a"},
				{Name: "accept", Value: "b"},
				{Name: "Accept", Value: "c"},
			},
		},
		{
			name:        "値に含まれる2つ目以降の区切りは値に残す",
			input:       "GET / HTTP/1.1\r\nX-Note: a: b: c\r\n\r\n",
			wantMethod:  "GET",
			wantPath:    "/",
			wantHeaders: Headers{{Name: "X-Note", Value: "a: b: c"}},
		},
		{
			name:        "空行以降のボディやゴミは読まない",
			input:       "POST /create/user HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello\x00\x00\x00",
			wantMethod:  "POST",
			wantPath:    "/create/user",
			wantHeaders: Headers{{Name: "Content-Length", Value: "5"}},
		},
		{
			name:        "空白だけの行も区切りとみなす",
			input:       "GET / HTTP/1.1\r\nHost: x\r\n  \t\r\nnot a header\r\n",
			wantMethod:  "GET",
			wantPath:    "/",
			wantHeaders: Headers{{Name: "Host", Value: "x"}},
		},
		{
			name:        "空行が無くても入力の終わりまでヘッダーとして読む",
			input:       "GET / HTTP/1.1\r\nHost: x",
			wantMethod:  "GET",
			wantPath:    "/",
			wantHeaders: Headers{{Name: "Host", Value: "x"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := ParseRequest(tc.input)
			require.NoError(t, err)

			assert.Equal(t, tc.wantMethod, req.Method)
			assert.Equal(t, tc.wantPath, req.Path)
			assert.Equal(t, tc.wantHeaders, req.Headers)
			assert.Empty(t, req.Body)
			assert.Empty(t, req.Query)
		})
	}
}

func TestParseRequest_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"空の入力", "", ErrMalformedRequestLine},
		{"パスが無いリクエスト行", "GET\r\nHost: x\r\n\r\n", ErrMalformedRequestLine},
		{"空のリクエスト行", "\r\nHost: x\r\n\r\n", ErrMalformedRequestLine},
		{"区切りの無いヘッダー", "GET / HTTP/1.1\r\nHost:x\r\n\r\n", ErrMalformedHeader},
		{"テキストでないバイト列", "GET / HTTP/1.1\r\nX: \xff\xfe\r\n\r\n", ErrInvalidText},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := ParseRequest(tc.input)
			require.Error(t, err)
			assert.Nil(t, req)
			assert.ErrorIs(t, err, tc.wantErr)

			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr))
		})
	}
}

func TestParseError_Line(t *testing.T) {
	_, err := ParseRequest("GET / HTTP/1.1\r\nHost: x\r\nbroken\r\n\r\n")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Line)
	assert.Equal(t, "broken", parseErr.Text)
}

func TestNewRequest_RequiresMethodAndPath(t *testing.T) {
	_, err := NewRequest("", "/", "", nil, "")
	assert.ErrorIs(t, err, ErrEmptyMethod)

	_, err = NewRequest("GET", "", "", nil, "")
	assert.ErrorIs(t, err, ErrEmptyPath)

	req, err := NewRequest("GET", "/", "", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "GET", req.Method)
}

func TestHeaders_Get(t *testing.T) {
	headers := Headers{{Name: "Host", Value: "a"}, {Name: "Host", Value: "b"}}

	value, ok := headers.Get("Host")
	assert.True(t, ok)
	assert.Equal(t, "a", value)

	// 大文字小文字は区別する
	_, ok = headers.Get("host")
	assert.False(t, ok)
}
