package config

import "fmt"

// FieldError 提供字段路径与错误原因，便于 CLI 向用户反馈。
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// newFieldError 创建包含字段路径与原因的 error，便于 CLI 定位。
func newFieldError(field, reason string) error {
	return FieldError{Field: field, Reason: reason}
}

// pathField 输出 Path[name].Field 形式的字段路径。
func pathField(name, field string) string {
	return sectionField("Path", name, field)
}

// tableField 输出 Table[name].Field 形式的字段路径。
func tableField(name, field string) string {
	return sectionField("Table", name, field)
}

// documentField 输出 Document[name].Field 形式的字段路径。
func documentField(name, field string) string {
	return sectionField("Document", name, field)
}

func sectionField(section, name, field string) string {
	if name == "" {
		return fmt.Sprintf("%s[].%s", section, field)
	}
	return fmt.Sprintf("%s[%s].%s", section, name, field)
}
