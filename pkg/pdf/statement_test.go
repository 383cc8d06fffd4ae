package pdf

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short stays intact", "Mercado", 10, "Mercado"},
		{"long gets ellipsis", "abcdefghij", 5, "abcd…"},
		{"accented text cut on runes", "Combustível e pedágio", 12, "Combustível…"},
		{"rune count not byte count", "Salário", 7, "Salário"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)

			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestGenerateStatementAccentedText(t *testing.T) {
	g := NewDocumentGenerator()

	out, err := g.GenerateStatement(StatementData{
		UserName:          "João da Silva",
		Month:             3,
		Year:              2026,
		TotalIncomeCents:  500000,
		TotalExpenseCents: 123450,
		Lines: []StatementLine{
			{Date: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), Description: "Salário mensal", Category: "Salário", AmountCents: 500000},
			{Date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), Description: "Combustível", Category: "Transporte", AmountCents: -23450},
		},
	})

	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}
