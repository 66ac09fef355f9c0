package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/go-text/typesetting/segmenter"
)

// Wrap 把 text 按 maxWidth 贪心折行。
//
// 断行机会来自 UAX #14：token 依次追加到当前行，只要整行宽度严格小于
// maxWidth。放不下时先输出当前行（非空白时），再逐字符切分过长的 token，
// 每段至少包含一个字符，因此单个字符比 maxWidth 更宽时也会终止。
// 强制换行（\n 等）总会结束当前行，空行会被保留。空输入返回 nil。
func Wrap(measure MeasureFunc, size float64, text string, maxWidth float64) []Line {
	if text == "" {
		return nil
	}
	width := func(s string) float64 { return measure(s, size) }

	var lines []Line
	line := ""
	for _, tok := range breakTokens(text) {
		word := stripBreaks(tok.text)
		if width(line+word) < maxWidth {
			line += word
			if tok.mandatory {
				lines = append(lines, Line{Text: line, Mandatory: true})
				line = ""
			}
			continue
		}

		if strings.TrimSpace(line) != "" {
			lines = append(lines, Line{Text: line})
		}
		line = ""
		for word != "" && width(word) > maxWidth {
			n := fitPrefix(width, word, maxWidth)
			lines = append(lines, Line{Text: word[:n]})
			word = word[n:]
		}
		if tok.mandatory {
			lines = append(lines, Line{Text: word, Mandatory: true})
			continue
		}
		line = word
	}
	if strings.TrimSpace(line) != "" {
		lines = append(lines, Line{Text: line})
	}
	return lines
}

type breakToken struct {
	text      string
	mandatory bool
}

// breakTokens 返回 UAX #14 断行机会之间的片段。
// 只有以换行字符结尾的片段才算强制换行，文本末尾不算。
func breakTokens(text string) []breakToken {
	runes := []rune(text)
	var seg segmenter.Segmenter
	seg.Init(runes)
	iter := seg.LineIterator()

	var tokens []breakToken
	for iter.Next() {
		l := iter.Line()
		tokens = append(tokens, breakToken{
			text:      string(l.Text),
			mandatory: l.IsMandatoryBreak && len(l.Text) > 0 && isBreakRune(l.Text[len(l.Text)-1]),
		})
	}
	return tokens
}

func isBreakRune(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x85, 0x2028, 0x2029:
		return true
	default:
		return false
	}
}

func stripBreaks(s string) string {
	if strings.IndexFunc(s, isBreakRune) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if isBreakRune(r) {
			return -1
		}
		return r
	}, s)
}

// fitPrefix returns the byte length of the longest rune prefix of word that
// fits in maxWidth, but never less than one rune.
func fitPrefix(width func(string) float64, word string, maxWidth float64) int {
	fit := 0
	for end := 0; end < len(word); {
		_, n := utf8.DecodeRuneInString(word[end:])
		end += n
		if width(word[:end]) > maxWidth {
			break
		}
		fit = end
	}
	if fit == 0 {
		_, fit = utf8.DecodeRuneInString(word)
	}
	return fit
}
