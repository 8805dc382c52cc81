package controller

import (
	"dialog-faq-backend/model"
	"dialog-faq-backend/request"
	"dialog-faq-backend/response"
	"dialog-faq-backend/service/scenario"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func abortScenarioError(c *gin.Context, fallback error, err error) {
	switch {
	case errors.Is(err, scenario.ErrScenarioNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, response.Response{Msg: err.Error()})
	case errors.Is(err, scenario.ErrScenarioCodeEmpty):
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{Msg: err.Error()})
	default:
		slog.Error(fallback.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{Msg: fallback.Error()})
	}
}

func CreateScenario(c *gin.Context) {
	var req request.CreateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	s := &model.Scenario{
		ScenarioCode:    req.ScenarioCode,
		ScenarioName:    req.ScenarioName,
		IsActive:        true,
		SourceGroupCode: req.SourceGroupCode,
		AicoUsername:    req.AicoUsername,
		AicoUserID:      req.AicoUserID,
		AicoProjectName: req.AicoProjectName,
		AicoKBName:      req.AicoKBName,
		AicoHost:        req.AicoHost,
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	if req.SyncSchedule != "" {
		s.SyncSchedule = req.SyncSchedule
	}

	if err := scenario.Create(s); err != nil {
		abortScenarioError(c, ErrCreateScenario, err)
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Data: s,
	})
}

func ListScenarios(c *gin.Context) {
	scenarios, err := scenario.List()
	if err != nil {
		abortScenarioError(c, ErrListScenarios, err)
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: scenarios,
	})
}

func GetScenario(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	s, err := scenario.Get(id)
	if err != nil {
		abortScenarioError(c, ErrLoadScenario, err)
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: s,
	})
}

func UpdateScenario(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	var req request.UpdateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	s, err := scenario.Update(id, func(s *model.Scenario) {
		s.ScenarioCode = req.ScenarioCode
		s.ScenarioName = req.ScenarioName
		if req.IsActive != nil {
			s.IsActive = *req.IsActive
		}
		s.SourceGroupCode = req.SourceGroupCode
		s.AicoUsername = req.AicoUsername
		s.AicoUserID = req.AicoUserID
		s.AicoProjectName = req.AicoProjectName
		s.AicoKBName = req.AicoKBName
		s.AicoHost = req.AicoHost
		if req.SyncSchedule != "" {
			s.SyncSchedule = req.SyncSchedule
		}
	})
	if err != nil {
		abortScenarioError(c, ErrUpdateScenario, err)
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: s,
	})
}
