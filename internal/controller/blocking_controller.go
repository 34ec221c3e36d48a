package controller

import (
	"errors"
	"focusread_backend/internal/service"
	"focusread_backend/internal/util"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
)

type BlockingController struct {
	BlockingService *service.BlockingService
}

func NewBlockingController(blockingService *service.BlockingService) *BlockingController {
	return &BlockingController{BlockingService: blockingService}
}

// ActivateRequest 激活屏蔽请求
type ActivateRequest struct {
	HardLock bool `json:"hardLock"`
}

// Activate godoc
// @Summary 激活屏蔽
// @Description 计算并返回当前用户的屏蔽配置，短信与通讯录始终在白名单内
// @Tags 屏蔽
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ActivateRequest true "是否强锁"
// @Success 200 {object} util.Response{data=service.BlockingConfig} "Success"
// @Router /api/blocking/activate [post]
func (c *BlockingController) Activate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	// hardLock 可选，空请求体按 false 处理
	var req ActivateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, err.Error())
		return
	}

	config, err := c.BlockingService.Enforce(claims.UserID, req.HardLock)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, config)
}

// Deactivate godoc
// @Summary 停用屏蔽
// @Description 服务端不持有屏蔽状态，此端点仅作为客户端停用动作的确认
// @Tags 屏蔽
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "Success"
// @Router /api/blocking/deactivate [post]
func (c *BlockingController) Deactivate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, gin.H{"active": false})
}

// AddAppRequest 添加屏蔽应用请求
type AddAppRequest struct {
	AppName     string `json:"appName" binding:"required"`
	PackageName string `json:"packageName"`
}

// AddApp godoc
// @Summary 添加屏蔽应用
// @Tags 屏蔽
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AddAppRequest true "应用名与包名"
// @Success 201 {object} util.Response{data=model.BlockedApp} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/blocking/apps [post]
func (c *BlockingController) AddApp(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AddAppRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	app, err := c.BlockingService.AddApp(claims.UserID, req.AppName, req.PackageName)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, app)
}

// ListApps godoc
// @Summary 屏蔽应用列表
// @Tags 屏蔽
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.BlockedApp} "Success"
// @Router /api/blocking/apps [get]
func (c *BlockingController) ListApps(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	apps, err := c.BlockingService.ListApps(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, apps)
}

// RemoveApp godoc
// @Summary 删除屏蔽应用
// @Tags 屏蔽
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "记录ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/blocking/apps/{id} [delete]
func (c *BlockingController) RemoveApp(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.BlockingService.RemoveApp(claims.UserID, uint(id)); err != nil {
		if errors.Is(err, util.ErrBlockEntryNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// AddWebsiteRequest 添加屏蔽网站请求
type AddWebsiteRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// AddWebsite godoc
// @Summary 添加屏蔽网站
// @Tags 屏蔽
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AddWebsiteRequest true "网站地址"
// @Success 201 {object} util.Response{data=model.BlockedWebsite} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/blocking/websites [post]
func (c *BlockingController) AddWebsite(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AddWebsiteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	site, err := c.BlockingService.AddWebsite(claims.UserID, req.URL)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, site)
}

// ListWebsites godoc
// @Summary 屏蔽网站列表
// @Tags 屏蔽
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.BlockedWebsite} "Success"
// @Router /api/blocking/websites [get]
func (c *BlockingController) ListWebsites(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sites, err := c.BlockingService.ListWebsites(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, sites)
}

// RemoveWebsite godoc
// @Summary 删除屏蔽网站
// @Tags 屏蔽
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "记录ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/blocking/websites/{id} [delete]
func (c *BlockingController) RemoveWebsite(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.BlockingService.RemoveWebsite(claims.UserID, uint(id)); err != nil {
		if errors.Is(err, util.ErrBlockEntryNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
