package attr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_Conversions(t *testing.T) {
	tests := []struct {
		name    string
		v       Value
		wantF   float64
		okF     bool
		wantI   int64
		okI     bool
		wantStr string
	}{
		{"int", Int(40), 40, true, 40, true, "40"},
		{"float rounds half even", Float(2.5), 2.5, true, 2, true, "2.5"},
		{"bool", Bool(true), 1, true, 1, true, "true"},
		{"string", String("PlayerSquad"), 0, false, 0, false, "PlayerSquad"},
		{"nil", Nil, 0, false, 0, false, ""},
		{"nan", Float(math.NaN()), math.NaN(), true, 0, false, "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := tt.v.Float()
			assert.Equal(t, tt.okF, ok)
			if ok && !math.IsNaN(tt.wantF) {
				assert.Equal(t, tt.wantF, f)
			}
			i, ok := tt.v.Int()
			assert.Equal(t, tt.okI, ok)
			assert.Equal(t, tt.wantI, i)
			assert.Equal(t, tt.wantStr, tt.v.String())
		})
	}
}

func TestValue_Sequences(t *testing.T) {
	arr := Array(Int(1), Int(2))
	lst := List(Int(3))

	assert.Equal(t, KindArray, arr.Kind())
	assert.Len(t, arr.Elems(), 2)
	assert.Equal(t, KindList, lst.Kind())
	assert.Len(t, lst.Elems(), 1)
	assert.Nil(t, Int(1).Elems())
	assert.True(t, Object(nil).IsNil())
}
