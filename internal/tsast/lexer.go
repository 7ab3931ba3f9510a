package tsast

import "strings"

type tokKind int

const (
	tokIdent tokKind = iota
	tokString
	tokTemplate
	tokNumber
	tokPunct
	tokEOF
)

type token struct {
	kind  tokKind
	text  string
	start int
	end   int
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// lex tokenizes src. Comments and whitespace are dropped; strings and
// template literals are single tokens (template ${} interpolations are
// swallowed with brace balancing). Everything else not recognized becomes a
// one-byte punct token, which the reader skips when it has no use for it.
func lex(src string) []token {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			nl := strings.IndexByte(src[i:], '\n')
			if nl < 0 {
				i = len(src)
			} else {
				i += nl + 1
			}
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				i = len(src)
			} else {
				i += end + 4
			}
		case isIdentStart(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, src[i:j], i, j})
			i = j
		case isDigit(c):
			j := i + 1
			for j < len(src) && (isDigit(src[j]) || src[j] == '.' || src[j] == 'x' ||
				(src[j] >= 'a' && src[j] <= 'f') || (src[j] >= 'A' && src[j] <= 'F')) {
				j++
			}
			toks = append(toks, token{tokNumber, src[i:j], i, j})
			i = j
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(src) && src[j] != c {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j < len(src) {
				j++
			}
			toks = append(toks, token{tokString, src[i:j], i, j})
			i = j
		case c == '`':
			j := i + 1
			depth := 0
			for j < len(src) {
				if src[j] == '\\' {
					j += 2
					continue
				}
				if src[j] == '$' && j+1 < len(src) && src[j+1] == '{' {
					depth++
					j += 2
					continue
				}
				if src[j] == '}' && depth > 0 {
					depth--
					j++
					continue
				}
				if src[j] == '`' && depth == 0 {
					j++
					break
				}
				j++
			}
			toks = append(toks, token{tokTemplate, src[i:j], i, j})
			i = j
		default:
			toks = append(toks, token{tokPunct, src[i : i+1], i, i + 1})
			i++
		}
	}
	toks = append(toks, token{tokEOF, "", len(src), len(src)})
	return toks
}
