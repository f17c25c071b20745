// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/transfer-desk/pkg/types"
)

func TestFeeNormalize(t *testing.T) {
	var n FeeNormalizer
	tests := []struct {
		name string
		in   string
		want string
		rule string
	}{
		{"millions short", "Kwota transferu: 3.5M € plus bonusy", "3.5M €", "millions"},
		{"millions comma", "klub zapłacił 2,8 mln euro", "2,8 mln euro", "millions"},
		{"millions word", "for 4 million eur", "4 million eur", "millions"},
		{"thousands", "kosztował 500k €", "500k €", "thousands"},
		{"thousands polish", "za 800 tys. euro", "800 tys. euro", "thousands"},
		{"free", "Przechodzi bezpłatnie", types.FeeFree, "free"},
		{"free english", "joins on a free transfer", types.FeeFree, "free"},
		{"free transfer cell", "wolny transfer", types.FeeFree, "free"},
		{"bare free cell", " Wolny ", types.FeeFree, "free"},
		{"no fee", "przechodzi bez opłaty", types.FeeFree, "free"},
		{"free agent", "był wolnym agentem od lata", types.FeeFree, "free agent"},
		{"loan", "Wypożyczenie do końca sezonu", types.FeeLoan, "loan"},
		{"loan english", "joins on loan", types.FeeLoan, "loan"},
		{"nothing", "Kontrakt do 2027 roku", types.UnknownFee, ""},
		{"empty", "", types.UnknownFee, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, rule := n.Match(tt.in)
			assert.Equal(t, tt.want, fee)
			assert.Equal(t, tt.rule, rule)
		})
	}
}

func TestFeePriority(t *testing.T) {
	var n FeeNormalizer

	// Amounts precede loan and free phrasing regardless of position.
	assert.Equal(t, "2.5M €", n.Normalize("Wypożyczenie z obowiązkiem wykupu za 2.5M €"))
	assert.Equal(t, "300k €", n.Normalize("free agent last year, now sold for 300k €"))

	// Millions precede thousands even when the thousands appear first.
	assert.Equal(t, "1.2M €", n.Normalize("bonus 200k € on top of 1.2M €"))

	// Free precedes loan.
	assert.Equal(t, types.FeeFree, n.Normalize("po wypożyczeniu odchodzi bezpłatnie"))
}

func TestFeeCustomRules(t *testing.T) {
	n := FeeNormalizer{Rules: []FeeRule{
		{Name: "loan", Pattern: regexp.MustCompile(`(?i)loan`), Outcome: types.FeeLoan},
		{Name: "millions", Pattern: regexp.MustCompile(`(?i)\d+M €`)},
	}}
	assert.Equal(t, types.FeeLoan, n.Normalize("loan with option to buy for 3M €"))
}

func TestIsFreeAgent(t *testing.T) {
	assert.True(t, IsFreeAgent("Wolny agent podpisuje kontrakt"))
	assert.True(t, IsFreeAgent("the free agent signs"))
	assert.True(t, IsFreeAgent("pomocnik był bez klubu"))
	assert.False(t, IsFreeAgent("przechodzi za darmo"))
}
