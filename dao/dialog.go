package dao

import (
	"dialog-faq-backend/model"
	"time"
)

// GetActiveGroupCodes 查询时间窗口内有原始对话的分组编码
func GetActiveGroupCodes(start, end time.Time) ([]string, error) {
	var codes []string
	if err := SourceDB.Model(&model.DialogRecord{}).
		Where("create_time >= ? AND create_time < ?", start, end).
		Distinct("group_code").
		Pluck("group_code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// GetDialogRecords 查询单个分组在时间窗口内的全部原始对话，
// 按 (call_id, create_time, seq) 排序，保证同一通对话的轮次连续且有序
func GetDialogRecords(groupCode string, start, end time.Time) ([]model.DialogRecord, error) {
	var records []model.DialogRecord
	if err := SourceDB.
		Where("group_code = ? AND create_time >= ? AND create_time < ?", groupCode, start, end).
		Order("call_id, create_time, seq").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
