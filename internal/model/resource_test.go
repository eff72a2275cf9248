package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourceKind(t *testing.T) {
	tests := []struct {
		input       string
		expected    ResourceKind
		expectError bool
	}{
		{input: "milk", expected: Milk},
		{input: "Water", expected: Water},
		{input: " COFFEE ", expected: Coffee},
		{input: "Sugar Packets", expected: SugarPacket},
		{input: "sugar", expected: SugarPacket},
		{input: "sugar_packets", expected: SugarPacket},
		{input: "cream", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, err := ParseResourceKind(tt.input)
			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
		})
	}
}

func TestResourceKind_Format(t *testing.T) {
	assert.Equal(t, "300ml", Milk.Format(300))
	assert.Equal(t, "75g", Coffee.Format(75))
	assert.Equal(t, "4 packets", SugarPacket.Format(4))
}

func TestRequirements_Kinds(t *testing.T) {
	req := Requirements{Coffee: 75, Milk: 300, Water: 350}
	assert.Equal(t, []ResourceKind{Milk, Water, Coffee}, req.Kinds())
}

func TestRequirements_Clone(t *testing.T) {
	req := Requirements{Milk: 300}
	clone := req.Clone()
	clone[Milk] = 1

	assert.Equal(t, int64(300), req[Milk])
}
