package atom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomString(t *testing.T) {
	assert.Equal(t, "3", Float(3).String())
	assert.Equal(t, "0.5", Float(0.5).String())
	assert.Equal(t, "-2.25", Float(-2.25).String())
	assert.Equal(t, "1e+06", Float(1000000).String())
	assert.Equal(t, "123457", Float(123456.7).String())

	assert.Equal(t, "hello", Symbol("hello").String())
	assert.Equal(t, `hello\ world`, Symbol("hello world").String())
	assert.Equal(t, `a\;b\,c`, Symbol("a;b,c").String())
	assert.Equal(t, `\$1`, Symbol("$1").String())
	assert.Equal(t, "$x", Symbol("$x").String())
}

func TestAtomAccessors(t *testing.T) {
	f := Float(4)
	assert.True(t, f.IsFloat())
	assert.Equal(t, KindFloat, f.Kind())
	assert.Equal(t, 4.0, f.FloatValue())
	assert.Equal(t, "", f.SymbolValue())

	s := Symbol("x")
	assert.False(t, s.IsFloat())
	assert.Equal(t, "symbol", s.Kind().String())
	assert.Equal(t, 0.0, s.FloatValue())
	assert.Equal(t, "x", s.SymbolValue())
}

func TestJoin(t *testing.T) {
	atoms := []Atom{Symbol("hello"), Symbol("world"), Float(3)}
	assert.Equal(t, "hello world 3", string(Join(atoms, 0)))

	assert.Equal(t, "", string(Join(nil, 0)))
	assert.Equal(t, "x", string(Join([]Atom{Symbol("x")}, 0)))

	t.Run("truncates at the limit", func(t *testing.T) {
		long := Symbol(strings.Repeat("a", 100))
		joined := Join([]Atom{long, long}, 150)
		assert.Len(t, joined, 150)
		assert.Equal(t, byte(' '), joined[100])
	})
}

func TestFromString(t *testing.T) {
	assert.Equal(t, Float(42), FromString("42"))
	assert.Equal(t, Float(-1.5), FromString("-1.5"))
	assert.Equal(t, Symbol("hello"), FromString("hello"))
	assert.Equal(t, Symbol("inf"), FromString("inf"))

	assert.Equal(t, []Atom{Float(1), Symbol("a")}, FromStrings([]string{"1", "a"}))
	assert.Equal(t, []string{"1", "a"}, Strings([]Atom{Float(1), Symbol("a")}))
}

func TestIsNumeric(t *testing.T) {
	for _, token := range []string{"0", "42", "-3", "+7", "1.5", ".5", "5.", "1e3", "1E-3", "-2.5e+10"} {
		assert.True(t, IsNumeric(token), token)
	}

	for _, token := range []string{"", "-", ".", "e3", "1e", "1e+", "inf", "NaN", "0x10", "1_000", "12a", "hello", "1.2.3"} {
		assert.False(t, IsNumeric(token), token)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, [][]string{{"3", "4", "5"}, {"hello", "world"}}, Tokenize("3 4 5;hello world;"))
	assert.Equal(t, [][]string{{"a"}, {"b"}}, Tokenize(";; a ;\t;b"))
	assert.Nil(t, Tokenize("   "))

	t.Run("backslash escapes separators", func(t *testing.T) {
		assert.Equal(t, [][]string{{"a b", "c;d"}}, Tokenize(`a\ b c\;d`))
	})

	t.Run("escaped dollar is kept for substitution checks", func(t *testing.T) {
		messages := Tokenize(`\$1 $2`)
		assert.Equal(t, [][]string{{`\$1`, "$2"}}, messages)
		assert.False(t, HasSubstitution(messages[0][0]))
		assert.True(t, HasSubstitution(messages[0][1]))
		assert.Equal(t, "$1", Unescape(messages[0][0]))
	})

	t.Run("escaped backslash does not escape a following dollar", func(t *testing.T) {
		messages := Tokenize(`a \\$1 b\\c`)
		assert.Equal(t, [][]string{{"a", `\\$1`, `b\\c`}}, messages)
		assert.True(t, HasSubstitution(messages[0][1]))
		assert.False(t, HasSubstitution(messages[0][2]))
		assert.Equal(t, `b\c`, Unescape(messages[0][2]))
	})
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, "plain", Unescape("plain"))
	assert.Equal(t, "$1", Unescape(`\$1`))
	assert.Equal(t, `\$1`, Unescape(`\\\$1`))
	assert.Equal(t, `trailing\`, Unescape(`trailing\`))
}

func TestHasSubstitution(t *testing.T) {
	assert.True(t, HasSubstitution("$1"))
	assert.True(t, HasSubstitution("foo$2bar"))
	assert.False(t, HasSubstitution("$"))
	assert.False(t, HasSubstitution("$x"))
	assert.False(t, HasSubstitution("cost"))
}
