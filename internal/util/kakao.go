package util

import "strings"

const (
	KakaoSeeMorePadding = 500
	KakaoZeroWidthSpace = "\u200b"
)

// 카카오톡 '전체보기'로 접히도록 첫 줄 뒤에 제로폭 문자를 채운다.
// 첫 줄은 미리보기에 남고 나머지 본문은 접힌다.
func FoldAfterFirstLine(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	head, body, found := strings.Cut(text, "\n")
	if !found || strings.TrimSpace(body) == "" {
		return text
	}

	var builder strings.Builder
	builder.Grow(len(text) + KakaoSeeMorePadding*len(KakaoZeroWidthSpace) + 1)
	builder.WriteString(strings.TrimSpace(head))
	builder.WriteString(strings.Repeat(KakaoZeroWidthSpace, KakaoSeeMorePadding))
	builder.WriteByte('\n')
	builder.WriteString(body)
	return builder.String()
}
