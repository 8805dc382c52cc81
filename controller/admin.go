package controller

import (
	"dialog-faq-backend/request"
	"dialog-faq-backend/response"
	"dialog-faq-backend/service/comparesync"
	"dialog-faq-backend/service/etl"
	"dialog-faq-backend/service/extraction"
	"dialog-faq-backend/service/jobs"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// beginJob 登记一个后台任务，同类任务已在运行时返回409
func beginJob(c *gin.Context, kind string, fallback error) (*jobs.Handle, bool) {
	handle, err := jobs.Default.Begin(kind)
	if err != nil {
		var conflict *jobs.ConflictError
		if errors.As(err, &conflict) {
			c.AbortWithStatusJSON(http.StatusConflict, response.Response{
				Msg: conflict.Error(),
			})
			return nil, false
		}
		slog.Error(fallback.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: fallback.Error(),
		})
		return nil, false
	}
	return handle, true
}

// TriggerAggregation 异步触发日期区间内的对话聚合，逐日执行
func TriggerAggregation(c *gin.Context) {
	var req request.TriggerAggregationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	service := etl.NewService()
	loc := service.DefaultTargetDate().Location()

	startDate, err := time.ParseInLocation(time.DateOnly, req.StartDate, loc)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}
	endDate, err := time.ParseInLocation(time.DateOnly, req.EndDate, loc)
	if err != nil || endDate.Before(startDate) {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	handle, ok := beginJob(c, jobs.KindAggregation, ErrTriggerAggregation)
	if !ok {
		return
	}

	go func() {
		defer handle.Done()
		for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
			if _, err := service.RunForDate(d); err != nil {
				slog.Error("Background aggregation failed",
					"job_id", handle.JobID(),
					"target_date", d.Format(time.DateOnly),
					"err", err,
				)
				return
			}
		}
		slog.Info("Background aggregation finished", "job_id", handle.JobID())
	}()

	c.JSON(http.StatusAccepted, response.Response{
		Data: response.JobAcceptedResponse{
			JobID: handle.JobID(),
			Kind:  jobs.KindAggregation,
		},
	})
}

// TriggerExtraction 异步触发FAQ提取，完成后串联对比知识库同步
func TriggerExtraction(c *gin.Context) {
	var req request.TriggerExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	var targetDate *time.Time
	if req.TargetDate != "" {
		parsed, err := time.Parse(time.DateOnly, req.TargetDate)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
				Msg: ErrParseRequest.Error(),
			})
			return
		}
		targetDate = &parsed
	}
	if req.Limit < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	handle, ok := beginJob(c, jobs.KindExtraction, ErrTriggerExtraction)
	if !ok {
		return
	}

	go func() {
		defer handle.Done()
		if _, err := extraction.NewService().Run(targetDate, req.Limit); err != nil {
			slog.Error("Background extraction failed", "job_id", handle.JobID(), "err", err)
			return
		}
		// 与定时任务保持一致，提取完成后串联对比知识库同步
		if _, err := comparesync.NewService().Run(); err != nil {
			slog.Error("Background compare KB sync failed", "job_id", handle.JobID(), "err", err)
			return
		}
		slog.Info("Background extraction finished", "job_id", handle.JobID())
	}()

	c.JSON(http.StatusAccepted, response.Response{
		Data: response.JobAcceptedResponse{
			JobID: handle.JobID(),
			Kind:  jobs.KindExtraction,
		},
	})
}

// TriggerCompareSync 异步触发对比知识库同步
func TriggerCompareSync(c *gin.Context) {
	handle, ok := beginJob(c, jobs.KindCompareKBSync, ErrTriggerCompareSync)
	if !ok {
		return
	}

	go func() {
		defer handle.Done()
		results, err := comparesync.NewService().Run()
		if err != nil {
			slog.Error("Background compare KB sync failed", "job_id", handle.JobID(), "err", err)
			return
		}
		slog.Info("Background compare KB sync finished",
			"job_id", handle.JobID(),
			"scenarios", len(results),
		)
	}()

	c.JSON(http.StatusAccepted, response.Response{
		Data: response.JobAcceptedResponse{
			JobID: handle.JobID(),
			Kind:  jobs.KindCompareKBSync,
		},
	})
}
