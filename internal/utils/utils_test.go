package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReverseForEach(t *testing.T) {
	var visited []int
	var indexes []int
	ReverseForEach([]int{1, 2, 3}, func(idx int, element int) {
		indexes = append(indexes, idx)
		visited = append(visited, element)
	})
	assert.Equal(t, []int{3, 2, 1}, visited)
	assert.Equal(t, []int{2, 1, 0}, indexes)
}

func TestFilterAndMap(t *testing.T) {
	even := Filter([]int{1, 2, 3, 4}, func(element int) bool { return element%2 == 0 })
	assert.Equal(t, []int{2, 4}, even)

	doubled := Map(even, func(element int) string { return time.Duration(element).String() })
	assert.Equal(t, []string{"2ns", "4ns"}, doubled)

	found, ok := Find([]string{"a", "b"}, func(element string) bool { return element == "b" })
	assert.True(t, ok)
	assert.Equal(t, "b", found)

	_, ok = Find([]string{"a"}, func(element string) bool { return element == "z" })
	assert.False(t, ok)
}

func TestCachedValue(t *testing.T) {
	calls := 0
	value := NewCachedValue(0, func() *int {
		calls++
		return &calls
	})
	assert.Equal(t, 1, *value.GetValue())
	assert.Equal(t, 1, *value.GetValue())

	value.Invalidate()
	assert.Equal(t, 2, *value.GetValue())
	assert.Equal(t, 2, calls)
}

func TestCachedValueExpires(t *testing.T) {
	calls := 0
	value := NewCachedValue(time.Nanosecond, func() *int {
		calls++
		result := calls
		return &result
	})
	first := *value.GetValue()
	time.Sleep(time.Millisecond)
	second := *value.GetValue()
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}
