package controller

import (
	"dialog-faq-backend/middleware"
	"dialog-faq-backend/request"
	"dialog-faq-backend/response"
	"dialog-faq-backend/service/auth"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

func UserRegister(c *gin.Context) {
	var req request.UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	user, err := auth.UserRegister(req)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			c.AbortWithStatusJSON(http.StatusConflict, response.Response{
				Msg: err.Error(),
			})
			return
		}
		slog.Error(ErrUserRegister.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrUserRegister.Error(),
		})
		return
	}

	token, err := middleware.GenerateToken(user.Username, user.ScenarioID, user.Role)
	if err != nil {
		slog.Error(ErrGenerateToken.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGenerateToken.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, response.Response{
		Data: response.UserAuthResponse{
			Username:   user.Username,
			FullName:   user.FullName,
			ScenarioID: user.ScenarioID,
			Role:       user.Role,
			Token:      token,
		},
	})
}

func UserLogin(c *gin.Context) {
	var req request.UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error(ErrParseRequest.Error(), "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Response{
			Msg: ErrParseRequest.Error(),
		})
		return
	}

	user, err := auth.UserLogin(req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrUserDisabled) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Response{
				Msg: err.Error(),
			})
			return
		}
		slog.Error(ErrUserLogin.Error(),
			"username", req.Username,
			"err", err,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrUserLogin.Error(),
		})
		return
	}

	token, err := middleware.GenerateToken(user.Username, user.ScenarioID, user.Role)
	if err != nil {
		slog.Error(ErrGenerateToken.Error(),
			"username", user.Username,
			"err", err,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
			Msg: ErrGenerateToken.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response.Response{
		Data: response.UserAuthResponse{
			Username:   user.Username,
			FullName:   user.FullName,
			ScenarioID: user.ScenarioID,
			Role:       user.Role,
			Token:      token,
		},
	})
}
