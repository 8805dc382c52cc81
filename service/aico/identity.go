package aico

import (
	"dialog-faq-backend/config"
	"dialog-faq-backend/dao"
	"dialog-faq-backend/model"
	"strings"
)

// SelectAicoScenario 选择承载AICO凭证的场景行。
//
// 同一逻辑场景在测试/生产AICO主机上可能使用不同凭证，约定以
// "<code><suffix>" 场景行保存测试环境配置。按当前配置的AICO主机
// 构造候选编码的优先序，再以主机绑定做最终裁决；无候选时场景自身
// 即是凭证来源。
func SelectAicoScenario(scenario *model.Scenario) (*model.Scenario, error) {
	cfg := config.Cfg.Aico
	preferred := buildCandidateCodes(scenario.ScenarioCode, cfg.Host, cfg.HostTest, cfg.HostProd, cfg.TestScenarioSuffix)

	candidates, err := dao.GetActiveScenariosByCodes(preferred)
	if err != nil {
		return nil, err
	}
	if picked := pickByPreference(candidates, preferred, cfg.Host); picked != nil {
		return picked, nil
	}
	return scenario, nil
}

// buildCandidateCodes 构造候选场景编码的优先序
func buildCandidateCodes(scenarioCode, currentHost, hostTest, hostProd, testSuffix string) []string {
	if testSuffix == "" {
		testSuffix = "_test"
	}
	rootCode := strings.TrimSuffix(scenarioCode, testSuffix)

	switch {
	case hostTest != "" && currentHost == hostTest:
		return []string{rootCode + testSuffix, rootCode}
	case hostProd != "" && currentHost == hostProd:
		return []string{rootCode, rootCode + testSuffix}
	default:
		return []string{scenarioCode, rootCode + testSuffix, rootCode}
	}
}

// pickByPreference 先在主机绑定与当前主机一致的候选中按优先序取最优，
// 没有主机匹配时在全部候选中按优先序取最优
func pickByPreference(candidates []model.Scenario, preferred []string, currentHost string) *model.Scenario {
	if len(candidates) == 0 {
		return nil
	}

	rank := make(map[string]int, len(preferred))
	for i, code := range preferred {
		rank[code] = i
	}
	rankOf := func(s *model.Scenario) int {
		if r, ok := rank[s.ScenarioCode]; ok {
			return r
		}
		return len(preferred)
	}

	var hostMatched []*model.Scenario
	for i := range candidates {
		if strings.TrimSpace(candidates[i].AicoHost) == strings.TrimSpace(currentHost) {
			hostMatched = append(hostMatched, &candidates[i])
		}
	}

	pool := hostMatched
	if len(pool) == 0 {
		pool = make([]*model.Scenario, 0, len(candidates))
		for i := range candidates {
			pool = append(pool, &candidates[i])
		}
	}

	best := pool[0]
	for _, s := range pool[1:] {
		if rankOf(s) < rankOf(best) {
			best = s
		}
	}
	return best
}
