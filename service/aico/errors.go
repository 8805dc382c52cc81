package aico

import "fmt"

// SyncError AICO同步过程中的集成失败：传输错误、业务错误码、轮询超时。
// 携带run_id便于与日志关联。
type SyncError struct {
	RunID   string
	Message string
	Err     error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[run_id=%s] %s: %v", e.RunID, e.Message, e.Err)
	}
	return fmt.Sprintf("[run_id=%s] %s", e.RunID, e.Message)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func syncErrorf(runID string, format string, args ...any) *SyncError {
	return &SyncError{RunID: runID, Message: fmt.Sprintf(format, args...)}
}

func wrapSyncError(runID string, err error, format string, args ...any) *SyncError {
	return &SyncError{RunID: runID, Message: fmt.Sprintf(format, args...), Err: err}
}
