package dao

import (
	"dialog-faq-backend/model"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func CreateScenario(scenario *model.Scenario) error {
	return DB.Create(scenario).Error
}

func GetScenarioByID(id int64) (*model.Scenario, error) {
	var scenario model.Scenario
	if err := DB.Where("id = ?", id).First(&scenario).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &scenario, nil
}

func ListScenarios() ([]model.Scenario, error) {
	var scenarios []model.Scenario
	if err := DB.Order("id").Find(&scenarios).Error; err != nil {
		return nil, err
	}
	return scenarios, nil
}

func ListActiveScenarios() ([]model.Scenario, error) {
	var scenarios []model.Scenario
	if err := DB.Where("is_active = ?", true).Find(&scenarios).Error; err != nil {
		return nil, err
	}
	return scenarios, nil
}

// GetActiveScenariosByCodes 按编码集合查询启用的场景（AICO身份选择用）
func GetActiveScenariosByCodes(codes []string) ([]model.Scenario, error) {
	var scenarios []model.Scenario
	if err := DB.
		Where("scenario_code IN ? AND is_active = ?", codes, true).
		Find(&scenarios).Error; err != nil {
		return nil, err
	}
	return scenarios, nil
}

func UpdateScenario(scenario *model.Scenario) error {
	return DB.Save(scenario).Error
}

// UpdateScenarioAicoToken 持久化AICO token缓存，加行锁避免并发同步互相覆盖
func UpdateScenarioAicoToken(scenarioID int64, token string, expiresAt time.Time) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		var scenario model.Scenario
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", scenarioID).
			First(&scenario).Error; err != nil {
			return err
		}
		return tx.Model(&scenario).Updates(map[string]any{
			"aico_cached_token":     token,
			"aico_token_expires_at": expiresAt,
		}).Error
	})
}

func UpdateScenarioAicoPID(scenarioID int64, pid int) error {
	return updateScenarioCacheField(scenarioID, "aico_cached_pid", pid)
}

func UpdateScenarioAicoKBID(scenarioID int64, kbID int) error {
	return updateScenarioCacheField(scenarioID, "aico_cached_kb_id", kbID)
}

func updateScenarioCacheField(scenarioID int64, column string, value any) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		var scenario model.Scenario
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", scenarioID).
			First(&scenario).Error; err != nil {
			return err
		}
		return tx.Model(&scenario).Update(column, value).Error
	})
}
