package dao

import (
	"dialog-faq-backend/model"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func CreatePendingFAQ(faq *model.PendingFAQ) error {
	return DB.Create(faq).Error
}

// ListPendingFAQs 分页查询待审核FAQ，可按问题关键字与来源分组过滤
func ListPendingFAQs(page, pageSize int, keyword, sourceGroupCode string) ([]model.PendingFAQ, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	query := DB.Model(&model.PendingFAQ{}).Where("status = ?", model.FAQStatusPending)
	if keyword != "" {
		query = query.Where("question LIKE ?", "%"+keyword+"%")
	}
	if sourceGroupCode != "" {
		query = query.Where("source_group_code = ?", sourceGroupCode)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var faqs []model.PendingFAQ
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&faqs).Error; err != nil {
		return nil, 0, err
	}
	return faqs, total, nil
}

// GetPendingFAQsByGroupCode 查询指定来源分组下全部pending状态的FAQ（对比同步用）
func GetPendingFAQsByGroupCode(groupCode string) ([]model.PendingFAQ, error) {
	var faqs []model.PendingFAQ
	if err := DB.
		Where("status = ? AND source_group_code = ?", model.FAQStatusPending, groupCode).
		Find(&faqs).Error; err != nil {
		return nil, err
	}
	return faqs, nil
}

func GetPendingFAQByID(tx *gorm.DB, id int64) (*model.PendingFAQ, error) {
	var faq model.PendingFAQ
	if err := tx.Where("id = ?", id).First(&faq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &faq, nil
}

// GetPendingFAQsForUpdate 按ID集合加行锁查询，用于审核状态变更
func GetPendingFAQsForUpdate(tx *gorm.DB, ids []int64) ([]model.PendingFAQ, error) {
	var faqs []model.PendingFAQ
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Find(&faqs).Error; err != nil {
		return nil, err
	}
	return faqs, nil
}
