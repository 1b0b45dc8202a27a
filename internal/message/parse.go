package message

import (
	"strings"
	"unicode/utf8"
)

const (
	lineSeparator   = "\r\n"
	headerSeparator = ": "
)

// ParseRequest は1つのHTTPメッセージのテキストをRequestに解析する
//
// 空行以降は読まないため、Bodyは常に空になる。
// 空行の後ろに続くゴミ（バッファの余りなど）は無視される。
func ParseRequest(text string) (*Request, error) {
	if !utf8.ValidString(text) {
		return nil, &ParseError{Err: ErrInvalidText}
	}

	lines := strings.Split(text, lineSeparator)

	// リクエスト行: METHOD PATH [無視されるトークン...]
	fields := strings.Fields(lines[0])
	if len(fields) < 2 {
		return nil, &ParseError{Line: 1, Text: lines[0], Err: ErrMalformedRequestLine}
	}

	var headers Headers
	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			break
		}

		name, value, found := strings.Cut(line, headerSeparator)
		if !found {
			return nil, &ParseError{Line: i + 2, Text: line, Err: ErrMalformedHeader}
		}
		headers = append(headers, Header{Name: name, Value: value})
	}

	return NewRequest(fields[0], fields[1], "", headers, "")
}
