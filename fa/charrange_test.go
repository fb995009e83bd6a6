package fa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharRangeOps(t *testing.T) {
	az := CharRange{First: 'a', Last: 'z'}
	assert.True(t, az.Contains('m'))
	assert.False(t, az.Contains('A'))
	assert.True(t, az.Covers(CharRange{First: 'c', Last: 'f'}))
	assert.False(t, az.Covers(CharRange{First: '0', Last: 'c'}))

	ac := CharRange{First: 'a', Last: 'c'}
	assert.True(t, ac.Touches(CharRange{First: 'd', Last: 'f'}))
	assert.False(t, ac.Intersects(CharRange{First: 'd', Last: 'f'}))
	assert.False(t, ac.Touches(CharRange{First: 'e', Last: 'f'}))
	assert.Equal(t, CharRange{First: 'a', Last: 'f'}, ac.Union(CharRange{First: 'e', Last: 'f'}))

	r, ok := CharRange{First: 'a', Last: 'm'}.Intersect(CharRange{First: 'h', Last: 'z'})
	require.True(t, ok)
	assert.Equal(t, CharRange{First: 'h', Last: 'm'}, r)
	_, ok = ac.Intersect(CharRange{First: 'x', Last: 'z'})
	assert.False(t, ok)

	assert.Equal(t, "a", Char('a').String())
	assert.Equal(t, "0-9", CharRange{First: '0', Last: '9'}.String())
	assert.Equal(t, "[0A_]", FormatRanges(RangesOf("_A0")))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []CharRange
		want []CharRange
	}{
		{"empty", nil, nil},
		{
			name: "chain",
			in:   []CharRange{{'a', 'c'}, {'b', 'e'}, {'g', 'h'}, {'f', 'f'}},
			want: []CharRange{{'a', 'h'}},
		},
		{
			name: "sorted",
			in:   []CharRange{{'x', 'z'}, {'a', 'b'}},
			want: []CharRange{{'a', 'b'}, {'x', 'z'}},
		},
		{
			name: "duplicates",
			in:   []CharRange{{'0', '9'}, {'0', '9'}, {'5', '5'}},
			want: []CharRange{{'0', '9'}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := append([]CharRange(nil), tt.in...)
			assert.Equal(t, tt.want, Normalize(tt.in))
			assert.Equal(t, in, tt.in, "input must not be modified")
		})
	}
}

func TestPacked(t *testing.T) {
	ranges := []CharRange{{'0', '9'}, {'A', 'Z'}, Char('_')}
	packed := ToPacked(ranges)
	assert.Equal(t, []rune{'0', '9', 'A', 'Z', '_', '_'}, packed)

	back, err := FromPacked(packed)
	require.NoError(t, err)
	assert.Equal(t, ranges, back)

	assert.True(t, packedContains(packed, '5'))
	assert.True(t, packedContains(packed, '_'))
	assert.False(t, packedContains(packed, 'a'))

	_, err = FromPacked([]rune{'a', 'b', 'c'})
	assert.ErrorIs(t, err, ErrOddPackedRanges)
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name string
		in   []CharRange
		want []CharRange
	}{
		{"empty", nil, nil},
		{
			name: "nested",
			in:   []CharRange{{'a', 'z'}, {'e', 'g'}},
			want: []CharRange{{'a', 'd'}, {'e', 'g'}, {'h', 'z'}},
		},
		{
			name: "disjoint",
			in:   []CharRange{{'x', 'z'}, {'a', 'c'}},
			want: []CharRange{{'a', 'c'}, {'x', 'z'}},
		},
		{
			name: "overlap",
			in:   []CharRange{{'a', 'c'}, {'b', 'd'}},
			want: []CharRange{{'a', 'a'}, {'b', 'c'}, {'d', 'd'}},
		},
		{
			name: "same",
			in:   []CharRange{{'a', 'c'}, {'a', 'c'}},
			want: []CharRange{{'a', 'c'}},
		},
		{
			name: "adjacent",
			in:   []CharRange{{'a', 'c'}, {'d', 'f'}},
			want: []CharRange{{'a', 'c'}, {'d', 'f'}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tt.in)
			assert.Equal(t, tt.want, got)
			for _, in := range tt.in {
				for _, sub := range got {
					// Every sub-range is either inside or outside every input range.
					assert.True(t, in.Covers(sub) || !in.Intersects(sub), "%v splits %v", in, sub)
				}
			}
		})
	}
}
