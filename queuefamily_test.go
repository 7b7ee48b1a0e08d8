package vkframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveQueueFamilies(t *testing.T) {
	cases := []struct {
		name     string
		families []QueueCaps
		want     QueueFamilyIndices
		ok       bool
	}{
		{
			name: "first family does both",
			families: []QueueCaps{
				{Index: 0, Graphics: true, Present: true},
				{Index: 1, Graphics: true, Present: true},
			},
			want: QueueFamilyIndices{Graphics: 0, Present: 0},
			ok:   true,
		},
		{
			name: "combined family preferred over earlier split ones",
			families: []QueueCaps{
				{Index: 0, Graphics: true},
				{Index: 1, Present: true},
				{Index: 2, Graphics: true, Present: true},
			},
			want: QueueFamilyIndices{Graphics: 2, Present: 2},
			ok:   true,
		},
		{
			name: "split families",
			families: []QueueCaps{
				{Index: 0},
				{Index: 1, Graphics: true},
				{Index: 2, Present: true},
				{Index: 3, Graphics: true},
			},
			want: QueueFamilyIndices{Graphics: 1, Present: 2},
			ok:   true,
		},
		{
			name:     "no present",
			families: []QueueCaps{{Index: 0, Graphics: true}},
		},
		{
			name:     "no graphics",
			families: []QueueCaps{{Index: 0, Present: true}},
		},
		{
			name: "empty",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := ResolveQueueFamilies(c.families)
			assert.Equal(t, c.ok, ok)
			if c.ok {
				assert.Equal(t, c.want, got)
			}
		})
	}
}

func TestQueueFamilyIndicesUnique(t *testing.T) {
	shared := QueueFamilyIndices{Graphics: 1, Present: 1}
	assert.True(t, shared.Shared())
	assert.Equal(t, []int{1}, shared.Unique())

	split := QueueFamilyIndices{Graphics: 0, Present: 2}
	assert.False(t, split.Shared())
	assert.Equal(t, []int{0, 2}, split.Unique())
}
