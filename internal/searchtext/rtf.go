package searchtext

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

var rtfDestinations = map[string]bool{
	"fonttbl": true, "colortbl": true, "stylesheet": true, "info": true,
	"pict": true, "header": true, "headerl": true, "headerr": true,
	"headerf": true, "footer": true, "footerl": true, "footerr": true,
	"footerf": true, "listtable": true, "listoverridetable": true,
	"rsidtbl": true, "generator": true, "xmlnstbl": true, "themedata": true,
	"colorschememapping": true, "datastore": true, "latentstyles": true,
	"object": true, "fldinst": true, "filetbl": true, "revtbl": true,
	"mmathPr": true, "pgdsctbl": true, "expandedcolortbl": true,
}

var rtfSymbols = map[string]string{
	"par": "\n", "line": "\n", "sect": "\n", "row": "\n", "page": "\n",
	"tab": "\t", "cell": "\t",
	"emdash": "—", "endash": "–", "bullet": "•",
	"lquote": "‘", "rquote": "’",
	"ldblquote": "“", "rdblquote": "”",
	"emspace": " ", "enspace": " ", "qmspace": " ",
}

type rtfGroup struct {
	skip bool
	uc   int
}

// RTFToText extracts the visible text of an RTF document. Unknown control
// words are dropped along with destination groups such as font tables.
func RTFToText(input string) string {
	src := []rune(input)
	var out strings.Builder
	state := rtfGroup{uc: 1}
	var stack []rtfGroup
	pendingSkip := 0

	emit := func(s string) {
		if !state.skip {
			out.WriteString(s)
		}
	}

	for i := 0; i < len(src); i++ {
		ch := src[i]
		switch ch {
		case '{':
			stack = append(stack, state)
			pendingSkip = 0
		case '}':
			if n := len(stack); n > 0 {
				state = stack[n-1]
				stack = stack[:n-1]
			}
			pendingSkip = 0
		case '\r', '\n':
		case '\\':
			if i+1 >= len(src) {
				break
			}
			i++
			next := src[i]
			switch {
			case next == '\\' || next == '{' || next == '}':
				if pendingSkip > 0 {
					pendingSkip--
					continue
				}
				emit(string(next))
			case next == '\'':
				if i+2 >= len(src) {
					i = len(src)
					break
				}
				b, err := strconv.ParseUint(string(src[i+1:i+3]), 16, 8)
				i += 2
				if pendingSkip > 0 {
					pendingSkip--
					continue
				}
				if err == nil {
					emit(string(charmap.Windows1252.DecodeByte(byte(b))))
				}
			case next == '*':
				state.skip = true
			case next == '~':
				emit(" ")
			case next == '_':
				emit("-")
			case next == '-':
			case next == '\r' || next == '\n':
				emit("\n")
			case isASCIILetter(next):
				start := i
				for i < len(src) && isASCIILetter(src[i]) {
					i++
				}
				word := string(src[start:i])
				paramStart := i
				if i < len(src) && src[i] == '-' {
					i++
				}
				for i < len(src) && unicode.IsDigit(src[i]) {
					i++
				}
				param, hasParam := 0, false
				if i > paramStart {
					if n, err := strconv.Atoi(string(src[paramStart:i])); err == nil {
						param, hasParam = n, true
					}
				}
				if i >= len(src) || src[i] != ' ' {
					i--
				}

				switch {
				case rtfDestinations[word]:
					state.skip = true
				case word == "uc" && hasParam:
					state.uc = param
				case word == "u" && hasParam:
					if param < 0 {
						param += 65536
					}
					emit(string(rune(param)))
					pendingSkip = state.uc
				default:
					if sym, ok := rtfSymbols[word]; ok {
						emit(sym)
					}
				}
			}
		default:
			if pendingSkip > 0 {
				pendingSkip--
				continue
			}
			emit(string(ch))
		}
	}

	return out.String()
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
