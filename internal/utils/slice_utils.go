// Package utils
package utils

func Find[T any](src []T, comparator func(element T) bool) (T, bool) {
	for _, v := range src {
		if comparator(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func Filter[T any](src []T, filter func(element T) bool) (result []T) {
	result = make([]T, 0, len(src))
	for _, v := range src {
		if filter(v) {
			result = append(result, v)
		}
	}
	return
}

// Map 将src中的每个元素转换为另一种类型
func Map[T any, R any](src []T, mapper func(element T) R) []R {
	result := make([]R, 0, len(src))
	for _, v := range src {
		result = append(result, mapper(v))
	}
	return result
}

func ForEach[T any](src []T, callback func(idx int, element T)) {
	for i, v := range src {
		callback(i, v)
	}
}

// ReverseForEach 从后向前遍历, 回调收到的是元素的原始下标
func ReverseForEach[T any](src []T, callback func(idx int, element T)) {
	for i := len(src) - 1; i >= 0; i-- {
		callback(i, src[i])
	}
}
