package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9_\s-]`)
	slugCollapse = regexp.MustCompile(`[-\s]+`)
)

// Slugify 转成小写连字符形式："Stranger Things: Café!" -> "stranger-things-cafe"
// 重音字符先分解去掉附加符号，其它非 ASCII 字符丢弃
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	out := slugStrip.ReplaceAllString(strings.ToLower(folded), "")
	out = slugCollapse.ReplaceAllString(strings.TrimSpace(out), "-")
	return strings.Trim(out, "-_")
}

// uniqueSlug 冲突时追加 -2、-3 ... 直到可用，总长度不超过 max
func uniqueSlug(ctx context.Context, base, fallback string, max int, taken func(context.Context, string) (bool, error)) (string, error) {
	if base == "" {
		base = fallback
	}
	base = truncateSlug(base, max)
	candidate := base
	for i := 2; ; i++ {
		used, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		suffix := fmt.Sprintf("-%d", i)
		candidate = truncateSlug(base, max-len(suffix)) + suffix
	}
}

func truncateSlug(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimRight(s[:max], "-")
}
