package controller

import (
	"dialog-faq-backend/response"
	"dialog-faq-backend/service/etl"
	"dialog-faq-backend/service/extraction"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RunDialogAggregation 同步执行单日对话聚合，缺省处理前一天
func RunDialogAggregation(c *gin.Context) {
	service := etl.NewService()

	targetDate := service.DefaultTargetDate()
	if raw := c.Query("target_date"); raw != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, raw, targetDate.Location())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
				Msg: ErrParseRequest.Error(),
			})
			return
		}
		targetDate = parsed
	}

	result, err := service.RunForDate(targetDate)
	if err != nil {
		slog.Error(ErrTriggerAggregation.Error(), "target_date", targetDate.Format(time.DateOnly), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrTriggerAggregation.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.ETLRunResponse{
			TargetDate:         result.TargetDate.Format(time.DateOnly),
			GroupsProcessed:    result.GroupsProcessed,
			ConversationsTotal: result.ConversationsTotal,
			Inserted:           result.Inserted,
			SkippedExisting:    result.SkippedExisting,
		},
	})
}

// RunFAQExtraction 同步执行FAQ提取，可选按日期过滤与限制数量
func RunFAQExtraction(c *gin.Context) {
	service := extraction.NewService()

	var targetDate *time.Time
	if raw := c.Query("target_date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
				Msg: ErrParseRequest.Error(),
			})
			return
		}
		targetDate = &parsed
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
				Msg: ErrParseRequest.Error(),
			})
			return
		}
		limit = parsed
	}

	result, err := service.Run(targetDate, limit)
	if err != nil {
		slog.Error(ErrTriggerExtraction.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrTriggerExtraction.Error(),
		})
		return
	}

	resp := response.ExtractionRunResponse{
		ConversationsTotal: result.ConversationsTotal,
		FAQsCreated:        result.FAQsCreated,
	}
	if result.TargetDate != nil {
		resp.TargetDate = result.TargetDate.Format(time.DateOnly)
	}

	c.JSON(http.StatusOK, response.Response{
		Data: resp,
	})
}
