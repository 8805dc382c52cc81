package controller

import (
	"dialog-faq-backend/model"
	"dialog-faq-backend/request"
	"dialog-faq-backend/response"
	"dialog-faq-backend/service/knowledge"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func abortKnowledgeError(c *gin.Context, fallback error, err error) {
	switch {
	case errors.Is(err, knowledge.ErrItemNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, response.Response{Msg: err.Error()})
	case errors.Is(err, knowledge.ErrScenarioMismatch):
		c.AbortWithStatusJSON(http.StatusForbidden, response.Response{Msg: err.Error()})
	case errors.Is(err, knowledge.ErrInvalidStatus):
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{Msg: err.Error()})
	default:
		slog.Error(fallback.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{Msg: fallback.Error()})
	}
}

func ListKnowledgeItems(c *gin.Context) {
	scenarioID := c.GetInt64("scenario_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	keyword := c.Query("keyword")
	status := model.KnowledgeStatus(c.Query("status"))

	items, total, err := knowledge.List(scenarioID, status, page, pageSize, keyword)
	if err != nil {
		abortKnowledgeError(c, ErrListKnowledgeItems, err)
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.ListKnowledgeItemsResponse{
			Total: total,
			Items: items,
		},
	})
}

func GetKnowledgeItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	item, err := knowledge.Get(id, c.GetInt64("scenario_id"))
	if err != nil {
		abortKnowledgeError(c, ErrGetKnowledgeItem, err)
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: item,
	})
}

func UpdateKnowledgeItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	var req request.UpdateKnowledgeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	item, err := knowledge.Update(id, c.GetInt64("scenario_id"), req.Question, req.Answer, model.KnowledgeStatus(req.Status))
	if err != nil {
		abortKnowledgeError(c, ErrUpdateKnowledgeItem, err)
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: item,
	})
}
