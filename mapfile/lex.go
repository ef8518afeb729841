// SPDX-License-Identifier: GPL-2.0-or-later

package mapfile

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type itemType int

const (
	itemError  itemType = iota
	itemEOF
	itemString // quoted string, quotes removed
	itemChar   // '{','}','(',')'
	itemWord
)

const eof = -1

type item struct {
	typ  itemType
	val  string
	line int
}

func (i item) String() string {
	switch i.typ {
	case itemEOF:
		return "EOF"
	case itemError:
		return i.val
	}
	if len(i.val) > 10 {
		return fmt.Sprintf("%.10q...", i.val)
	}
	return fmt.Sprintf("%q", i.val)
}

type stateFn func(*lexer) stateFn

type lexer struct {
	input string
	start int
	pos   int
	width int
	line  int
	items chan item
	state stateFn
}

func lex(input string) *lexer {
	return &lexer{
		input: input,
		line:  1,
		items: make(chan item, 2),
		state: lexAction,
	}
}

func (l *lexer) nextItem() item {
	for {
		select {
		case item := <-l.items:
			return item
		default:
			if l.state == nil {
				return item{itemEOF, "", l.line}
			}
			l.state = l.state(l)
		}
	}
}

func (l *lexer) emit(t itemType) {
	l.emitValue(t, l.input[l.start:l.pos])
}

func (l *lexer) emitValue(t itemType, v string) {
	l.items <- item{t, v, l.line}
	l.start = l.pos
}

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += l.width
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *lexer) ignore() {
	l.start = l.pos
}

// backup may only be called once per call of next.
func (l *lexer) backup() {
	l.pos -= l.width
	if l.width == 1 && l.input[l.pos] == '\n' {
		l.line--
	}
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *lexer) errorf(format string, args ...interface{}) stateFn {
	l.items <- item{
		itemError,
		fmt.Sprintf(format, args...),
		l.line,
	}
	return nil
}

func lexAction(l *lexer) stateFn {
	switch r := l.next(); {
	case r == eof:
		l.emit(itemEOF)
		return nil
	case isSpace(r):
		return lexSpace
	case r == '"':
		l.ignore()
		return lexQuote
	case strings.ContainsRune("{}()", r):
		l.emit(itemChar)
		return lexAction
	case r == '/' && strings.HasPrefix(l.input[l.pos:], "/"):
		return lexComment
	case isWordRune(r):
		return lexWord
	default:
		return l.errorf("unhandled char: %#U", r)
	}
}

func lexSpace(l *lexer) stateFn {
	for isSpace(l.peek()) {
		l.next()
	}
	l.ignore()
	return lexAction
}

func lexComment(l *lexer) stateFn {
	for {
		switch l.next() {
		case '\n', eof:
			l.ignore()
			return lexAction
		}
	}
}

func lexQuote(l *lexer) stateFn {
	for {
		switch l.next() {
		case '"':
			l.emitValue(itemString, l.input[l.start:l.pos-1])
			return lexAction
		case eof, '\n':
			l.backup()
			return l.errorf("unterminated string")
		}
	}
}

func lexWord(l *lexer) stateFn {
	for {
		r := l.next()
		if !isWordRune(r) || strings.ContainsRune("{}()\"", r) {
			l.backup()
			l.emit(itemWord)
			return lexAction
		}
	}
}

func isWordRune(r rune) bool {
	return r > ' '
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
