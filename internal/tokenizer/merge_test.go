package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArenaMerger_ApplyMerge(t *testing.T) {
	tests := []struct {
		name    string
		symbols []int32
		pair    Pair
		want    []int32
	}{
		{
			name:    "single occurrence",
			symbols: []int32{1, 2, 3},
			pair:    Pair{2, 3},
			want:    []int32{1, 300},
		},
		{
			name:    "non overlapping left to right",
			symbols: []int32{7, 7, 7},
			pair:    Pair{7, 7},
			want:    []int32{300, 7},
		},
		{
			name:    "repeated",
			symbols: []int32{1, 2, 1, 2, 1},
			pair:    Pair{1, 2},
			want:    []int32{300, 300, 1},
		},
		{
			name:    "absent",
			symbols: []int32{1, 2, 3},
			pair:    Pair{3, 1},
			want:    []int32{1, 2, 3},
		},
		{
			name:    "too short",
			symbols: []int32{1},
			pair:    Pair{1, 1},
			want:    []int32{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]int32(nil), tt.symbols...)
			got := ArenaMerger{}.ApplyMerge(in, tt.pair, 300)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.symbols, in, "input must not be modified")
		})
	}
}
