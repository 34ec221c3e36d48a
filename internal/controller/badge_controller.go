package controller

import (
	"errors"
	"focusread_backend/internal/service"
	"focusread_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type BadgeController struct {
	BadgeService *service.BadgeService
}

func NewBadgeController(badgeService *service.BadgeService) *BadgeController {
	return &BadgeController{BadgeService: badgeService}
}

// ListBadges godoc
// @Summary 徽章列表
// @Description 全部可获得的徽章及其连续打卡门槛
// @Tags 徽章
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Badge} "Success"
// @Router /api/badges [get]
func (c *BadgeController) ListBadges(ctx *gin.Context) {
	badges, err := c.BadgeService.ListBadges()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// MyBadges godoc
// @Summary 我的徽章
// @Description 当前用户已获得的徽章
// @Tags 徽章
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserBadge} "Success"
// @Router /api/badges/mine [get]
func (c *BadgeController) MyBadges(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	badges, err := c.BadgeService.UserBadges(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// MyRewards godoc
// @Summary 我的奖励
// @Description 当前用户已解锁且未兑换的奖励
// @Tags 徽章
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserReward} "Success"
// @Router /api/rewards [get]
func (c *BadgeController) MyRewards(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	rewards, err := c.BadgeService.UserRewards(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rewards)
}

// RedeemReward godoc
// @Summary 兑换奖励
// @Description 兑换一条未兑换的奖励，重复兑换返回 404
// @Tags 徽章
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "奖励记录ID"
// @Success 200 {object} util.Response{data=model.UserReward} "Success"
// @Failure 404 {object} util.Response "奖励不存在或已兑换"
// @Router /api/rewards/{id}/redeem [patch]
func (c *BadgeController) RedeemReward(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid reward id")
		return
	}

	reward, err := c.BadgeService.RedeemReward(claims.UserID, uint(id))
	if err != nil {
		if errors.Is(err, util.ErrRewardNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, reward)
}
