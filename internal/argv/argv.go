// Package argv splits console lines into words.
//
// The rules suit coordinate entry rather than a shell:
//   - Spaces and tabs split words, except around a comma or '<', so "3, 4"
//     and "@10 < 45" each stay one word.
//   - A newline always ends a word.
//   - Single or double quotes keep their contents literally, for paths with
//     spaces. There are no escapes, so backslashes in Windows paths survive.
//   - A '#' at the start of a word comments out the rest of the line.
package argv

import (
	"iter"
)

// Token represents a parsed word, with its logical text and bounds in rune
// indices. Start is the rune index of the logical content (after an opening
// quote if present). End is the rune index where the word stopped.
type Token struct {
	Text   string
	Start  int
	End    int
	Quote  rune
	Quoted bool
}

// ArgsSeq yields the words of s.
func ArgsSeq(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for tok := range TokensSeq(s) {
			if !yield(tok.Text) {
				return
			}
		}
	}
}

// Split collects ArgsSeq into a slice.
func Split(s string) []string {
	out := make([]string, 0, 4)
	for a := range ArgsSeq(s) {
		out = append(out, a)
	}
	return out
}

func isBlank(r rune) bool { return r == ' ' || r == '\t' || r == '\r' }

func isJoiner(r rune) bool { return r == ',' || r == '<' }

// TokensSeq yields tokens with spans for callers that need positions, such
// as completion.
func TokensSeq(s string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		rs := []rune(s)

		var (
			buf   []rune
			start = -1
			// open is the quote rune while inside quotes
			open   rune
			q      rune
			quoted bool
			// glue absorbs blanks after a joiner
			glue  bool
			flush = func(end int) bool {
				if start < 0 {
					return true
				}
				tok := Token{Text: string(buf), Start: start, End: end, Quote: q, Quoted: quoted}
				buf = buf[:0]
				start = -1
				q = 0
				quoted = false
				glue = false
				return yield(tok)
			}
		)

		for i := 0; i < len(rs); i++ {
			r := rs[i]

			if open != 0 {
				if r == open {
					open = 0
					continue
				}
				buf = append(buf, r)
				continue
			}

			switch {
			case r == '#' && start < 0:
				for i+1 < len(rs) && rs[i+1] != '\n' {
					i++
				}

			case r == '\n':
				if !flush(i) {
					return
				}

			case isBlank(r):
				if start < 0 || glue {
					continue
				}
				j := i
				for j < len(rs) && isBlank(rs[j]) {
					j++
				}
				if j < len(rs) && isJoiner(rs[j]) {
					i = j - 1
					continue
				}
				if !flush(i) {
					return
				}

			case r == '"' || r == '\'':
				if start < 0 {
					start = i + 1
				}
				if !quoted {
					quoted = true
					q = r
				}
				open = r
				glue = false

			default:
				if start < 0 {
					start = i
				}
				buf = append(buf, r)
				glue = isJoiner(r)
			}
		}

		_ = flush(len(rs))
	}
}

// BeforeCursor tokenizes s (text before cursor) and returns completed words
// and the current token, which is empty when s ends between words. The
// current token's End is at the end of s.
func BeforeCursor(s string) (completed []string, current Token) {
	end := len([]rune(s))
	found := false
	for t := range TokensSeq(s) {
		if t.End == end {
			current = t
			found = true
			break
		}
		completed = append(completed, t.Text)
	}
	if !found {
		current = Token{Start: end, End: end}
	}
	return
}
