package service

import "streamblog/internal/domain"

const (
	ellipsis   = "..."
	excerptCut = domain.MaxExcerptLen - len(ellipsis) // 297
)

// MakeExcerpt 正文前 297 个字符 + "..."；正文不超过 297 个字符时原样返回
func MakeExcerpt(body string) string {
	r := []rune(body)
	if len(r) <= excerptCut {
		return body
	}
	return string(r[:excerptCut]) + ellipsis
}
