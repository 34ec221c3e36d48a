package controller

import (
	"errors"
	"focusread_backend/internal/model"
	"focusread_backend/internal/service"
	"focusread_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReadingController struct {
	ReadingService *service.ReadingService
}

func NewReadingController(readingService *service.ReadingService) *ReadingController {
	return &ReadingController{ReadingService: readingService}
}

// SetGoalRequest 设置阅读目标请求
// swagger:model SetGoalRequest
type SetGoalRequest struct {
	GoalType   string `json:"goalType" binding:"required,oneof=pages minutes"`
	GoalTarget uint   `json:"goalTarget" binding:"required,min=1"`
}

// SetGoal godoc
// @Summary 设置阅读目标
// @Description 设置每日阅读目标，重复设置时覆盖并清零当日进度
// @Tags 阅读目标
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SetGoalRequest true "目标类型与目标值"
// @Success 200 {object} util.Response{data=model.ReadingGoal} "Success"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/reading/goal [post]
func (c *ReadingController) SetGoal(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SetGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.ReadingService.SetGoal(claims.UserID, model.GoalType(req.GoalType), req.GoalTarget)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, goal)
}

// GetGoal godoc
// @Summary 获取阅读目标
// @Description 获取当前用户的阅读目标与进度
// @Tags 阅读目标
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.ReadingGoal} "Success"
// @Failure 404 {object} util.Response "尚未设置目标"
// @Router /api/reading/goal [get]
func (c *ReadingController) GetGoal(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	goal, err := c.ReadingService.GetGoal(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrGoalNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, goal)
}

// ProgressRequest 进度上报请求
type ProgressRequest struct {
	Amount int `json:"amount" binding:"required"`
}

// UpdateProgress godoc
// @Summary 上报阅读进度
// @Description 累加阅读进度，达到目标值时完成当日目标并推进连续打卡
// @Tags 阅读目标
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ProgressRequest true "本次新增的进度量"
// @Success 200 {object} util.Response{data=model.ReadingGoal} "Success"
// @Failure 400 {object} util.Response "进度量为负数"
// @Failure 404 {object} util.Response "尚未设置目标"
// @Failure 409 {object} util.Response "当日打卡记录已存在"
// @Router /api/reading/progress [post]
func (c *ReadingController) UpdateProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	goal, err := c.ReadingService.UpdateProgress(claims.UserID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidAmount):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrGoalNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrHistoryExists):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, goal)
}

// GetStreak godoc
// @Summary 获取连续打卡概要
// @Description 当前连续天数、历史最长连续天数与上次完成日期
// @Tags 阅读目标
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.StreakInfo} "Success"
// @Failure 404 {object} util.Response "尚未设置目标"
// @Router /api/reading/streak [get]
func (c *ReadingController) GetStreak(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	streak, err := c.ReadingService.GetStreak(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrGoalNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, streak)
}

// WeeklyStreaks godoc
// @Summary 本周打卡历史
// @Description 本周（周一起）的每日打卡记录
// @Tags 阅读目标
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ReadingHistory} "Success"
// @Router /api/reading/streak/weekly [get]
func (c *ReadingController) WeeklyStreaks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	history, err := c.ReadingService.WeeklyStreaks(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, history)
}

// MonthlyStreaks godoc
// @Summary 本月打卡历史
// @Description 本月（1 号起）的每日打卡记录
// @Tags 阅读目标
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ReadingHistory} "Success"
// @Router /api/reading/streak/monthly [get]
func (c *ReadingController) MonthlyStreaks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	history, err := c.ReadingService.MonthlyStreaks(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, history)
}

// ResetGoal godoc
// @Summary 重置当日目标
// @Description 清零进度与完成标记，断签超过一天时连续天数归零
// @Tags 阅读目标
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.ReadingGoal} "Success"
// @Failure 404 {object} util.Response "尚未设置目标"
// @Router /api/reading/goal/reset [post]
func (c *ReadingController) ResetGoal(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	goal, err := c.ReadingService.ResetGoal(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrGoalNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, goal)
}
