package argv

import (
	"slices"
	"testing"
	"unicode/utf8"
)

// FuzzTokenSpans checks that token spans stay in bounds and ordered, and
// that BeforeCursor agrees with the full token stream.
func FuzzTokenSpans(f *testing.F) {
	for _, s := range []string{
		"", " ", "\t\n\t", "a", "1 , 2", "@5<30", "\"", "''", "# x\ny", "a , ",
	} {
		f.Add(s)
	}
	for _, tc := range coreCases {
		f.Add(tc.in)
	}

	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			t.Skip()
		}
		n := utf8.RuneCountInString(s)
		toks := slices.Collect(TokensSeq(s))
		last := 0
		for _, tok := range toks {
			if tok.Start < last || tok.End < tok.Start || tok.End > n {
				t.Fatalf("bad span %+v after %d in %q", tok, last, s)
			}
			last = tok.End
		}

		args := Split(s)
		if len(args) != len(toks) {
			t.Fatalf("Split and TokensSeq disagree on %q", s)
		}

		completed, current := BeforeCursor(s)
		switch len(args) - len(completed) {
		case 0:
			if current.Text != "" {
				t.Fatalf("unexpected current %+v for %q", current, s)
			}
		case 1:
			if args[len(args)-1] != current.Text {
				t.Fatalf("current mismatch: args=%#v current=%+v input=%q", args, current, s)
			}
		default:
			t.Fatalf("size mismatch: args=%#v completed=%#v input=%q", args, completed, s)
		}
	})
}
