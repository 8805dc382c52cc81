package comparesync

import (
	"dialog-faq-backend/dao"
	"dialog-faq-backend/model"
	"dialog-faq-backend/service/aico"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// 对比场景的编码后缀
var compareSuffixes = []string{"_compare", "_compare_test"}

type task struct {
	scenario     *model.Scenario
	aicoScenario *model.Scenario
	items        []aico.QAPair
	itemCount    int
}

// Service 对比知识库同步：把未审核的pending FAQ同步到对比场景的AICO知识库，
// 用于提取效果评估。各场景相互独立，单场景失败不中断其余场景。
type Service struct {
	orchestrator *aico.Orchestrator
}

func NewService() *Service {
	return &Service{orchestrator: aico.NewOrchestrator()}
}

func (s *Service) Run() ([]aico.RunResult, error) {
	tasks, err := s.collectTasks()
	if err != nil {
		return nil, err
	}

	results := make([]aico.RunResult, 0, len(tasks))
	for _, t := range tasks {
		runID := fmt.Sprintf("compare-%d-%s", t.scenario.ID, uuid.NewString()[:8])
		result, err := s.orchestrator.RunForItems(t.scenario, t.aicoScenario, t.items, runID, aico.RunOptions{
			AllowEmpty:  true,
			SourceLabel: "pending FAQs",
			SkipMessage: "No pending FAQs to sync.",
		})
		if err != nil {
			slog.Error("Compare KB sync failed",
				"scenario_id", t.scenario.ID,
				"scenario_code", t.scenario.ScenarioCode,
				"err", err,
			)
			results = append(results, aico.RunResult{
				ScenarioID: t.scenario.ID,
				Items:      t.itemCount,
				Status:     aico.StatusFailed,
				Message:    err.Error(),
			})
			continue
		}
		results = append(results, *result)
	}
	return results, nil
}

// collectTasks 收集需要对比同步的场景。
// 仅处理身份未被委托到其他主机场景的对比场景，避免同一AICO身份被重复同步。
func (s *Service) collectTasks() ([]task, error) {
	scenarios, err := dao.ListActiveScenarios()
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %v", err)
	}

	var tasks []task
	for i := range scenarios {
		scenario := &scenarios[i]
		code := strings.TrimSpace(scenario.ScenarioCode)
		if !hasCompareSuffix(code) {
			continue
		}
		if scenario.SourceGroupCode == "" {
			slog.Warn("Compare scenario missing source_group_code",
				"scenario_id", scenario.ID,
				"scenario_code", scenario.ScenarioCode,
			)
			continue
		}

		aicoScenario, err := aico.SelectAicoScenario(scenario)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve aico scenario for %s: %v", scenario.ScenarioCode, err)
		}
		if aicoScenario.ID != scenario.ID {
			slog.Info("Skipping compare sync scenario, identity delegated",
				"scenario_id", scenario.ID,
				"scenario_code", scenario.ScenarioCode,
				"aico_scenario_id", aicoScenario.ID,
				"aico_scenario_code", aicoScenario.ScenarioCode,
			)
			continue
		}

		faqs, err := dao.GetPendingFAQsByGroupCode(scenario.SourceGroupCode)
		if err != nil {
			return nil, fmt.Errorf("failed to load pending faqs for group %s: %v", scenario.SourceGroupCode, err)
		}
		items := make([]aico.QAPair, 0, len(faqs))
		for _, faq := range faqs {
			items = append(items, aico.QAPair{Question: faq.Question, Answer: faq.Answer})
		}

		slog.Info("Collected compare sync task",
			"scenario_id", scenario.ID,
			"scenario_code", scenario.ScenarioCode,
			"group_code", scenario.SourceGroupCode,
			"items", len(items),
		)
		tasks = append(tasks, task{
			scenario:     scenario,
			aicoScenario: aicoScenario,
			items:        items,
			itemCount:    len(items),
		})
	}
	return tasks, nil
}

func hasCompareSuffix(code string) bool {
	for _, suffix := range compareSuffixes {
		if strings.HasSuffix(code, suffix) {
			return true
		}
	}
	return false
}
