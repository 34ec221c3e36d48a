package controller

import (
	"errors"
	"focusread_backend/internal/service"
	"focusread_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FocusController struct {
	FocusService *service.FocusService
}

func NewFocusController(focusService *service.FocusService) *FocusController {
	return &FocusController{FocusService: focusService}
}

// StartSessionRequest 开始专注会话请求
// swagger:model StartSessionRequest
type StartSessionRequest struct {
	BookID          string `json:"bookId" binding:"required"`
	ReadingDuration uint   `json:"readingDuration" binding:"required,min=5,max=180"`
	HardLock        bool   `json:"hardLock"`
}

// StartSession godoc
// @Summary 开始专注会话
// @Description 开始新的计时阅读会话并下发屏蔽配置，目标时长 5-180 分钟
// @Tags 专注
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body StartSessionRequest true "会话参数"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "已存在未完成的会话"
// @Router /api/focus/start [post]
func (c *FocusController) StartSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, config, err := c.FocusService.StartSession(claims.UserID, req.BookID, req.ReadingDuration, req.HardLock)
	if err != nil {
		if errors.Is(err, util.ErrActiveSessionExists) {
			util.Conflict(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{
		"session":  session,
		"blocking": config,
	})
}

// RecordInterruption godoc
// @Summary 记录一次打断
// @Description 客户端检测到切出应用时上报，只对活跃会话有效
// @Tags 专注
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.ReadingSession} "Success"
// @Failure 404 {object} util.Response "没有活跃会话"
// @Router /api/focus/interruption [post]
func (c *FocusController) RecordInterruption(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.FocusService.RecordInterruption(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrNoActiveSession) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, session)
}

// EndSession godoc
// @Summary 结束专注会话
// @Description 结束当前活跃会话并计算 0-100 的专注分数
// @Tags 专注
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.ReadingSession} "Success"
// @Failure 404 {object} util.Response "没有活跃会话"
// @Router /api/focus/end [post]
func (c *FocusController) EndSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.FocusService.EndSession(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrNoActiveSession) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, session)
}

// Stats godoc
// @Summary 专注会话记录
// @Description 当前用户的全部会话记录，最近的在前
// @Tags 专注
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ReadingSession} "Success"
// @Router /api/focus/stats [get]
func (c *FocusController) Stats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessions, err := c.FocusService.Stats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, sessions)
}
