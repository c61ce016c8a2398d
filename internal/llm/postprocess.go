package llm

import (
	"regexp"
	"strings"
)

// thinkingBlockRe matches complete <think>…</think> style reasoning blocks
// some models emit before the answer. RE2 has no backreferences, so each
// tag is listed.
var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
)

// Clean removes model artefacts from completion text: reasoning blocks, a
// quote pair wrapping the whole answer, and surrounding whitespace.
func Clean(text string) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	return strings.TrimSpace(removeQuoteWrapping(text))
}

// quotePairs lists opening and closing quotes that may wrap a whole answer.
var quotePairs = [][2]rune{
	{'"', '"'},
	{'“', '”'},
	{'«', '»'},
}

// removeQuoteWrapping strips one matching pair of outer quotes when the
// text contains no other occurrence of the closing quote.
func removeQuoteWrapping(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	for _, q := range quotePairs {
		if runes[0] != q[0] || runes[n-1] != q[1] {
			continue
		}
		inner := string(runes[1 : n-1])
		if strings.ContainsRune(inner, q[1]) {
			return text
		}
		return inner
	}
	return text
}
