package controller

import (
	"dialog-faq-backend/dao"
	"dialog-faq-backend/model"
	"dialog-faq-backend/request"
	"dialog-faq-backend/response"
	"dialog-faq-backend/service/review"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// currentScenario 加载当前登录用户绑定的场景
func currentScenario(c *gin.Context) (*model.Scenario, bool) {
	scenarioID := c.GetInt64("scenario_id")
	scenario, err := dao.GetScenarioByID(scenarioID)
	if err != nil {
		slog.Error(ErrLoadScenario.Error(), "scenario_id", scenarioID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrLoadScenario.Error(),
		})
		return nil, false
	}
	if scenario == nil {
		c.AbortWithStatusJSON(http.StatusForbidden, response.Response{
			Msg: ErrLoadScenario.Error(),
		})
		return nil, false
	}
	return scenario, true
}

// abortReviewError 将审核服务的错误种类映射为HTTP状态码
func abortReviewError(c *gin.Context, fallback error, err error) {
	var notFound *review.NotFoundError
	var validation *review.ValidationError
	var permission *review.PermissionError

	switch {
	case errors.As(err, &notFound):
		c.AbortWithStatusJSON(http.StatusNotFound, response.Response{Msg: notFound.Message})
	case errors.As(err, &validation):
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{Msg: validation.Message})
	case errors.As(err, &permission):
		c.AbortWithStatusJSON(http.StatusForbidden, response.Response{Msg: permission.Message})
	default:
		slog.Error(fallback.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{Msg: fallback.Error()})
	}
}

func ListPendingFAQs(c *gin.Context) {
	scenario, ok := currentScenario(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	keyword := c.Query("keyword")

	faqs, total, err := dao.ListPendingFAQs(page, pageSize, keyword, scenario.SourceGroupCode)
	if err != nil {
		slog.Error(ErrListPendingFAQs.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrListPendingFAQs.Error(),
		})
		return
	}

	resp := response.ListPendingFAQsResponse{Total: total}
	for i := range faqs {
		resp.Items = append(resp.Items, response.NewPendingFAQResponse(&faqs[i]))
	}

	c.JSON(http.StatusOK, response.Response{
		Data: resp,
	})
}

func AcceptFAQ(c *gin.Context) {
	pendingFAQID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	var req request.AcceptFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	scenario, ok := currentScenario(c)
	if !ok {
		return
	}

	item, err := review.Accept(pendingFAQID, scenario.ID, req.Question, req.Answer, scenario.SourceGroupCode)
	if err != nil {
		abortReviewError(c, ErrAcceptFAQ, err)
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.AcceptFAQResponse{KnowledgeItemID: item.ID},
	})
}

func DiscardFAQ(c *gin.Context) {
	pendingFAQID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	scenario, ok := currentScenario(c)
	if !ok {
		return
	}

	if err := review.Discard(pendingFAQID, scenario.SourceGroupCode); err != nil {
		abortReviewError(c, ErrDiscardFAQ, err)
		return
	}

	c.JSON(http.StatusOK, response.Response{})
}

func BulkAcceptFAQs(c *gin.Context) {
	var req request.BulkAcceptFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	scenario, ok := currentScenario(c)
	if !ok {
		return
	}

	payloads := make([]review.BulkAcceptItem, 0, len(req.Items))
	for _, item := range req.Items {
		payloads = append(payloads, review.BulkAcceptItem{
			PendingFAQID: item.PendingFAQID,
			ScenarioID:   scenario.ID,
			Question:     item.Question,
			Answer:       item.Answer,
		})
	}

	processed, err := review.BulkAccept(payloads, scenario.ID, scenario.SourceGroupCode)
	if err != nil {
		abortReviewError(c, ErrBulkAcceptFAQs, err)
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.BulkOperationResponse{Processed: processed},
	})
}

func BulkDiscardFAQs(c *gin.Context) {
	var req request.BulkDiscardFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	scenario, ok := currentScenario(c)
	if !ok {
		return
	}

	processed, err := review.BulkDiscard(req.PendingFAQIDs, scenario.SourceGroupCode)
	if err != nil {
		abortReviewError(c, ErrBulkDiscardFAQs, err)
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.BulkOperationResponse{Processed: processed},
	})
}
