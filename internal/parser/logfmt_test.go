package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelora-dev/kelora/internal/model"
)

func TestLogfmtParseMixedLine(t *testing.T) {
	ev, err := Logfmt{}.Parse(`a="va\"lue" b=5 c=5.0 d=true e`)
	require.NoError(t, err)
	require.Equal(t, 5, ev.Len())

	a, _ := ev.Get("a")
	assert.Equal(t, model.KindString, a.Kind())
	assert.Equal(t, `va"lue`, a.Str())

	b, _ := ev.Get("b")
	assert.Equal(t, model.KindInt, b.Kind())
	assert.Equal(t, int64(5), b.IntVal())

	c, _ := ev.Get("c")
	assert.Equal(t, model.KindFloat, c.Kind())
	assert.Equal(t, 5.0, c.FloatVal())

	d, _ := ev.Get("d")
	assert.Equal(t, model.KindBool, d.Kind())
	assert.True(t, d.BoolVal())

	e, _ := ev.Get("e")
	assert.Equal(t, model.KindBool, e.Kind())
	assert.True(t, e.BoolVal())
}

func TestLogfmtTypeInference(t *testing.T) {
	tests := []struct {
		name string
		line string
		key  string
		want model.Value
	}{
		{"unquoted integer", "n=42", "n", model.Int(42)},
		{"signed integer", "n=-7", "n", model.Int(-7)},
		{"plus-signed integer", "n=+7", "n", model.Int(7)},
		{"float", "f=3.14", "f", model.FloatLit(3.14, "3.14")},
		{"exponent float", "f=1e3", "f", model.FloatLit(1000, "1e3")},
		{"negative exponent", "f=2.5e-2", "f", model.FloatLit(0.025, "2.5e-2")},
		{"huge integer degrades to float", "n=99999999999999999999", "n",
			model.FloatLit(1e20, "99999999999999999999")},
		{"true literal", "b=true", "b", model.Bool(true)},
		{"false literal", "b=false", "b", model.Bool(false)},
		{"case-sensitive True stays string", "b=True", "b", model.String("True")},
		{"quoted number stays string", `n="42"`, "n", model.String("42")},
		{"quoted true stays string", `b="true"`, "b", model.String("true")},
		{"plain word", "w=hello", "w", model.String("hello")},
		{"empty value", "k=", "k", model.String("")},
		{"dotted word not float", "v=1.2.3", "v", model.String("1.2.3")},
		{"lone sign not number", "v=-", "v", model.String("-")},
		{"escaped backslash", `p="C:\\tmp"`, "p", model.String(`C:\tmp`)},
		{"quoted spaces", `m="two words"`, "m", model.String("two words")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Logfmt{}.Parse(tt.line)
			require.NoError(t, err)
			got, ok := ev.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogfmtDuplicateKeyLastWins(t *testing.T) {
	ev, err := Logfmt{}.Parse("a=1 b=2 a=3")
	require.NoError(t, err)
	require.Equal(t, 2, ev.Len())

	a, _ := ev.Get("a")
	assert.Equal(t, int64(3), a.IntVal())
	assert.Equal(t, "a", ev.Fields()[0].Key)
}

func TestLogfmtParseErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"unterminated quote", `a="oops`, "unterminated quote at offset 2"},
		{"leading equals", `=5`, "missing key before '=' at offset 0"},
		{"equals after space", `a=1 =2`, "missing key before '=' at offset 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Logfmt{}.Parse(tt.line)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLogfmtDetectsCoreFields(t *testing.T) {
	ev, err := Logfmt{}.Parse(`ts=2024-03-05T10:30:00Z level=info msg="hello there"`)
	require.NoError(t, err)

	assert.True(t, ev.TimeOK)
	assert.Equal(t, "INFO", ev.Level)
	assert.Equal(t, "hello there", ev.Message)
	assert.True(t, ev.HasMessage)
}
