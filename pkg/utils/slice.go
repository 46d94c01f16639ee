package utils

// FilterSlice 映射并过滤，fn 第二个返回值为 false 时丢弃该元素
func FilterSlice[T any, R any](list []T, fn func(T) (R, bool)) []R {
	result := make([]R, 0, len(list))
	for _, item := range list {
		if r, ok := fn(item); ok {
			result = append(result, r)
		}
	}
	return result
}

// SliceToMap 以 fn 返回的 key 建索引，后出现的覆盖先出现的
func SliceToMap[T any, K comparable](list []T, fn func(T) K) map[K]T {
	result := make(map[K]T, len(list))
	for _, item := range list {
		result[fn(item)] = item
	}
	return result
}
