package skeleton

import "strings"

// tokenKind classifies a lexed skeleton fragment.
type tokenKind int

const (
	tokenText  tokenKind = iota // literal text, copied verbatim
	tokenVar                    // $name or ${name}
	tokenStart                  // $if_X_start
	tokenEnd                    // $if_X_end
)

// Marker names used in diagnostics.
const (
	markerStart = "start"
	markerEnd   = "end"
)

const (
	condPrefix      = "if_"
	condStartSuffix = "_start"
	condEndSuffix   = "_end"
)

// token is one lexed fragment. For tokenText, text holds the literal; for
// the other kinds it holds the variable or block name.
type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

// lexer splits a skeleton into text, placeholder and marker tokens in a
// single left-to-right pass. It never fails: malformed $ sequences are text.
type lexer struct {
	src    string
	pos    int
	line   int
	col    int
	text   strings.Builder
	tline  int // position of the pending text run
	tcol   int
	tokens []token
}

// lex tokenizes src.
//
// Grammar:
//
//	$$          literal $
//	$name       placeholder (name = [A-Za-z_][A-Za-z0-9_]*)
//	${name}     placeholder, allows a suffix directly after the brace
//	$if_X_start conditional start marker (also ${if_X_start})
//	$if_X_end   conditional end marker (also ${if_X_end})
//
// Any other $ is emitted verbatim.
func lex(src string) []token {
	l := &lexer{src: src, line: 1, col: 1, tline: 1, tcol: 1}
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c != '$' {
			l.writeByte(c)
			continue
		}
		l.lexDollar()
	}
	l.flushText()
	return l.tokens
}

// lexDollar handles a $ at l.pos.
func (l *lexer) lexDollar() {
	line, col := l.line, l.col

	if l.pos+1 >= len(l.src) {
		l.writeByte('$')
		return
	}

	next := l.src[l.pos+1]
	switch {
	case next == '$':
		l.advance(2)
		l.writeLiteral('$', line, col)
	case next == '{':
		end := strings.IndexByte(l.src[l.pos+2:], '}')
		if end < 0 {
			l.writeByte('$')
			return
		}
		name := l.src[l.pos+2 : l.pos+2+end]
		if !isIdentifier(name) {
			l.writeByte('$')
			return
		}
		l.advance(end + 3)
		l.emitName(name, line, col)
	case isIdentStart(next):
		n := 1
		for l.pos+1+n < len(l.src) && isIdentPart(l.src[l.pos+1+n]) {
			n++
		}
		name := l.src[l.pos+1 : l.pos+1+n]
		l.advance(n + 1)
		l.emitName(name, line, col)
	default:
		l.writeByte('$')
	}
}

// emitName classifies an identifier as marker or placeholder.
func (l *lexer) emitName(name string, line, col int) {
	l.flushText()
	kind, block := classify(name)
	if kind == tokenVar {
		block = name
	}
	l.tokens = append(l.tokens, token{kind: kind, text: block, line: line, col: col})
}

// classify reports whether name is a conditional marker and, if so, the block name.
func classify(name string) (tokenKind, string) {
	if !strings.HasPrefix(name, condPrefix) {
		return tokenVar, ""
	}
	rest := name[len(condPrefix):]
	if block, ok := strings.CutSuffix(rest, condStartSuffix); ok && block != "" {
		return tokenStart, block
	}
	if block, ok := strings.CutSuffix(rest, condEndSuffix); ok && block != "" {
		return tokenEnd, block
	}
	return tokenVar, ""
}

// writeByte appends src[pos] to the pending text run and advances.
func (l *lexer) writeByte(c byte) {
	if l.text.Len() == 0 {
		l.tline, l.tcol = l.line, l.col
	}
	l.text.WriteByte(c)
	l.advance(1)
}

// writeLiteral appends c without consuming input (already consumed by the caller).
func (l *lexer) writeLiteral(c byte, line, col int) {
	if l.text.Len() == 0 {
		l.tline, l.tcol = line, col
	}
	l.text.WriteByte(c)
}

func (l *lexer) flushText() {
	if l.text.Len() == 0 {
		return
	}
	l.tokens = append(l.tokens, token{kind: tokenText, text: l.text.String(), line: l.tline, col: l.tcol})
	l.text.Reset()
}

// advance moves n bytes forward, tracking line and column.
func (l *lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.src); i++ {
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}
