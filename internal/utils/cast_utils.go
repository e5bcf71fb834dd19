package utils

import "strconv"

func StrToInt(str string, defaultValue int) int {
	result, err := strconv.Atoi(str)
	if err != nil {
		return defaultValue
	}
	return result
}

func StrToFloat(str string, defaultValue float64) float64 {
	result, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

// StrToUint 解析路径参数中的ID, 非法或为0时返回defaultValue
func StrToUint(str string, defaultValue uint) uint {
	result, err := strconv.ParseUint(str, 10, 64)
	if err != nil || result == 0 {
		return defaultValue
	}
	return uint(result)
}
