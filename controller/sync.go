package controller

import (
	"dialog-faq-backend/response"
	"dialog-faq-backend/service/aico"
	"dialog-faq-backend/service/jobs"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TriggerScenarioSync 同步触发当前用户场景的知识库同步。
// 同类同步任务单飞，冲突时返回409。
func TriggerScenarioSync(c *gin.Context) {
	scenarioID := c.GetInt64("scenario_id")
	runID := fmt.Sprintf("sync-%d-%s", scenarioID, uuid.NewString()[:8])

	handle, err := jobs.Default.Begin(jobs.KindScenarioSync)
	if err != nil {
		var conflict *jobs.ConflictError
		if errors.As(err, &conflict) {
			c.AbortWithStatusJSON(http.StatusConflict, response.Response{
				Msg: conflict.Error(),
			})
			return
		}
		slog.Error(ErrScenarioSync.Error(), "run_id", runID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrScenarioSync.Error(),
		})
		return
	}
	defer handle.Done()

	result, err := aico.NewOrchestrator().RunForScenario(scenarioID, runID)
	if err != nil {
		slog.Error(ErrScenarioSync.Error(),
			"run_id", runID,
			"scenario_id", scenarioID,
			"err", err,
		)
		msg := ErrScenarioSync.Error()
		var syncErr *aico.SyncError
		if errors.As(err, &syncErr) {
			msg = syncErr.Message
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: msg,
			Data: response.SyncRunResponse{
				RunID:      runID,
				ScenarioID: scenarioID,
				Status:     aico.StatusFailed,
				Message:    msg,
			},
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.SyncRunResponse{
			RunID:      runID,
			ScenarioID: result.ScenarioID,
			Items:      result.Items,
			Status:     result.Status,
			Message:    result.Message,
		},
	})
}
