package keywords

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTable_Match(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		in    string
		want  bool
	}{
		{"empty input", Environment, "", false},
		{"mixed case", Environment, "SandBag_03", true},
		{"spaced variant", Environment, "Old Sand Bag", true},
		{"misspelled obstacle", Environment, "TestHalfObsticle_18(Clone)", true},
		{"barrel", Environment, "Explosive_OilBarrel_25", true},
		{"no match", Environment, "Raider", false},
		{"pet", Pet, "PetWolf", true},
		{"carpet also matches", Pet, "Carpet", true},
		{"friendly", Friendly, "Neutral", true},
		{"training dummy", Friendly, "trainingground", true},
		{"hostile", Friendly, "HostileRaiders", false},
		{"player squad", Player, "PlayerSquad", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.table.Match(tt.in))
		})
	}
}

func TestTables_AreLowerCase(t *testing.T) {
	for _, table := range []Table{Pet, Environment, Friendly, Player} {
		for _, k := range table {
			assert.Equal(t, strings.ToLower(k), k)
		}
	}
}

func TestExcluded(t *testing.T) {
	assert.True(t, Excluded("Goblin", "TombstoneComponent"))
	assert.True(t, Excluded("pet_cat"))
	assert.False(t, Excluded("Goblin", "EnemyController", ""))
	assert.False(t, Excluded())
}
