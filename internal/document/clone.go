package document

import (
	"fmt"

	"github.com/mitchellh/copystructure"
)

// DeepClone 通过 copystructure 深拷贝 v，仅复制导出字段。无法拷贝的类型属于调用方错误，
// 会直接 panic。
func DeepClone[T any](v T) T {
	copied, err := copystructure.Copy(v)
	if err != nil {
		panic(fmt.Sprintf("document: deep clone %T: %v", v, err))
	}
	if copied == nil {
		var zero T
		return zero
	}
	return copied.(T)
}

// Identity 适用于赋值即复制的值类型。
func Identity[T any](v T) T {
	return v
}
