package scenario

import (
	"dialog-faq-backend/dao"
	"dialog-faq-backend/model"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	ErrScenarioNotFound  = errors.New("scenario not found")
	ErrScenarioCodeEmpty = errors.New("scenario_code is required")
)

func Create(scenario *model.Scenario) error {
	scenario.ScenarioCode = strings.TrimSpace(scenario.ScenarioCode)
	if scenario.ScenarioCode == "" {
		return ErrScenarioCodeEmpty
	}
	if err := dao.CreateScenario(scenario); err != nil {
		return fmt.Errorf("failed to create scenario: %v", err)
	}

	slog.Info("Created scenario", "scenario_id", scenario.ID, "scenario_code", scenario.ScenarioCode)
	return nil
}

func List() ([]model.Scenario, error) {
	scenarios, err := dao.ListScenarios()
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %v", err)
	}
	return scenarios, nil
}

func Get(id int64) (*model.Scenario, error) {
	scenario, err := dao.GetScenarioByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenario: %v", err)
	}
	if scenario == nil {
		return nil, ErrScenarioNotFound
	}
	return scenario, nil
}

// Update 修改场景配置。aico_cached_*缓存字段由同步编排器维护，不在此更新。
func Update(id int64, apply func(*model.Scenario)) (*model.Scenario, error) {
	scenario, err := Get(id)
	if err != nil {
		return nil, err
	}

	apply(scenario)
	scenario.ScenarioCode = strings.TrimSpace(scenario.ScenarioCode)
	if scenario.ScenarioCode == "" {
		return nil, ErrScenarioCodeEmpty
	}
	if err := dao.UpdateScenario(scenario); err != nil {
		return nil, fmt.Errorf("failed to update scenario: %v", err)
	}

	slog.Info("Updated scenario", "scenario_id", scenario.ID, "scenario_code", scenario.ScenarioCode)
	return scenario, nil
}
