// Package nethtml turns markup into a stream of events using the
// golang.org/x/net/html tokenizer, and builds text extraction on top of it.
package nethtml

import (
	"iter"
	"strings"

	"golang.org/x/net/html"
)

// EventKind identifies the kind of a scanner event.
type EventKind int

const (
	StartTag EventKind = iota + 1
	EndTag
	SelfClosingTag
	Text
)

// String returns a readable name for the kind.
func (k EventKind) String() string {
	switch k {
	case StartTag:
		return "start"
	case EndTag:
		return "end"
	case SelfClosingTag:
		return "self-closing"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// Event is one item of the scanned markup. Name is the lowercased tag name
// for tag events; Text is the unescaped character data for Text events.
type Event struct {
	Kind EventKind
	Name string
	Text string
}

// Scan yields the events of markup in document order. Comments and
// doctypes are skipped. Scanning stops at the first tokenizer error,
// which includes the end of input, so malformed markup yields whatever
// was tokenized before the problem.
func Scan(markup string) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		z := html.NewTokenizer(strings.NewReader(markup))
		for {
			tt := z.Next()
			var ev Event
			switch tt {
			case html.ErrorToken:
				return
			case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
				tok := z.Token()
				ev = Event{Kind: tagKind(tt), Name: tok.Data}
			case html.TextToken:
				ev = Event{Kind: Text, Text: string(z.Text())}
			default:
				continue
			}
			if !yield(ev) {
				return
			}
		}
	}
}

func tagKind(tt html.TokenType) EventKind {
	switch tt {
	case html.StartTagToken:
		return StartTag
	case html.EndTagToken:
		return EndTag
	default:
		return SelfClosingTag
	}
}
