package review

import "fmt"

// NotFoundError 引用的实体不存在，映射为404
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func notFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError 输入不合法或状态冲突，映射为400
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PermissionError 跨场景/跨分组访问，映射为403
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

func permissionf(format string, args ...any) *PermissionError {
	return &PermissionError{Message: fmt.Sprintf(format, args...)}
}
