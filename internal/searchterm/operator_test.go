package searchterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrefix_KnownCodes(t *testing.T) {
	tests := []struct {
		term    string
		want    Operator
		literal string
	}{
		{"eq2024", OpEq, "2024"},
		{"ne2024", OpNe, "2024"},
		{"ge2024", OpGe, "2024"},
		{"gt2024", OpGt, "2024"},
		{"sa2024", OpGt, "2024"},
		{"le2024", OpLe, "2024"},
		{"lt2024", OpLt, "2024"},
		{"eb2024", OpLt, "2024"},
		{"ap2024-05-14", OpAp, "2024-05-14"},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			op, literal, err := ParsePrefix(tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, op)
			assert.Equal(t, tt.literal, literal)
		})
	}
}

func TestParsePrefix_UnknownCode(t *testing.T) {
	_, _, err := ParsePrefix("zz2024")
	require.Error(t, err)
	assert.True(t, IsInvalidPrefix(err))

	var te *TermError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "zz", te.Prefix)
	assert.Equal(t, "zz2024", te.Term)
	assert.Contains(t, te.Error(), "'zz'")
	assert.Contains(t, te.Error(), "'zz2024'")
}

func TestParsePrefix_Missing(t *testing.T) {
	tests := []string{
		"",
		"e",
		"2024",
		"EQ2024",
		"Eq2024",
		"e12024",
		" eq2024",
	}

	for _, term := range tests {
		t.Run(term, func(t *testing.T) {
			_, _, err := ParsePrefix(term)
			require.Error(t, err)
			assert.True(t, IsInvalidPrefix(err))
			assert.False(t, IsInvalidDateFormat(err))

			var te *TermError
			require.ErrorAs(t, err, &te)
			assert.Empty(t, te.Prefix)
			assert.Contains(t, te.Message, "letter prefix not found")
		})
	}
}

func TestParsePrefix_OnlyPrefix(t *testing.T) {
	op, literal, err := ParsePrefix("eq")
	require.NoError(t, err)
	assert.Equal(t, OpEq, op)
	assert.Empty(t, literal)
}

func TestOperator_String(t *testing.T) {
	assert.Equal(t, "eq", OpEq.String())
	assert.Equal(t, "ap", OpAp.String())
	assert.Equal(t, "Operator(0)", Operator(0).String())

	// Aliases resolve to the canonical operator.
	sa, ok := LookupPrefix("sa")
	require.True(t, ok)
	assert.Equal(t, "gt", sa.String())
	eb, ok := LookupPrefix("eb")
	require.True(t, ok)
	assert.Equal(t, "lt", eb.String())
}

func TestOperator_MarshalText(t *testing.T) {
	b, err := OpGe.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ge", string(b))

	_, err = Operator(42).MarshalText()
	assert.Error(t, err)
}
