package controller

import (
	"errors"
	"focusread_backend/internal/service"
	"focusread_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type BookmarkController struct {
	BookmarkService *service.BookmarkService
}

func NewBookmarkController(bookmarkService *service.BookmarkService) *BookmarkController {
	return &BookmarkController{BookmarkService: bookmarkService}
}

// AddBookmarkRequest 添加书签请求
type AddBookmarkRequest struct {
	BookID     uint   `json:"bookId" binding:"required"`
	PageNumber uint   `json:"pageNumber" binding:"required,min=1"`
	Note       string `json:"note"`
}

// AddBookmark godoc
// @Summary 添加书签
// @Description 同一本书同一页只允许一条书签
// @Tags 书签
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AddBookmarkRequest true "书签信息"
// @Success 201 {object} util.Response{data=model.Bookmark} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "该页已有书签"
// @Router /api/bookmarks [post]
func (c *BookmarkController) AddBookmark(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AddBookmarkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	bookmark, err := c.BookmarkService.AddBookmark(claims.UserID, req.BookID, req.PageNumber, req.Note)
	if err != nil {
		if errors.Is(err, util.ErrBookmarkExists) {
			util.Conflict(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, bookmark)
}

// ListBookmarks godoc
// @Summary 书签列表
// @Tags 书签
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Bookmark} "Success"
// @Router /api/bookmarks [get]
func (c *BookmarkController) ListBookmarks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	bookmarks, err := c.BookmarkService.ListBookmarks(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, bookmarks)
}

// RemoveBookmark godoc
// @Summary 删除书签
// @Tags 书签
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "书签ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "书签不存在"
// @Router /api/bookmarks/{id} [delete]
func (c *BookmarkController) RemoveBookmark(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid bookmark id")
		return
	}

	if err := c.BookmarkService.RemoveBookmark(uint(id), claims.UserID); err != nil {
		if errors.Is(err, util.ErrBookmarkNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// AddHighlightRequest 添加高亮请求
type AddHighlightRequest struct {
	BookID     uint   `json:"bookId" binding:"required"`
	PageNumber uint   `json:"pageNumber" binding:"required,min=1"`
	Text       string `json:"text" binding:"required"`
}

// AddHighlight godoc
// @Summary 添加高亮
// @Description 同一页可以有多条高亮
// @Tags 书签
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AddHighlightRequest true "高亮信息"
// @Success 201 {object} util.Response{data=model.Highlight} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/highlights [post]
func (c *BookmarkController) AddHighlight(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req AddHighlightRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	highlight, err := c.BookmarkService.AddHighlight(claims.UserID, req.BookID, req.PageNumber, req.Text)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, highlight)
}

// ListHighlights godoc
// @Summary 高亮列表
// @Description 按书和页码过滤，按 (页码, 创建时间) 排序
// @Tags 书签
// @Produce  json
// @Security ApiKeyAuth
// @Param   bookId query int false "图书ID"
// @Param   pageNumber query int false "页码"
// @Success 200 {object} util.Response{data=[]model.Highlight} "Success"
// @Router /api/highlights [get]
func (c *BookmarkController) ListHighlights(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	bookID, _ := strconv.ParseUint(ctx.Query("bookId"), 10, 32)
	pageNumber, _ := strconv.ParseUint(ctx.Query("pageNumber"), 10, 32)

	highlights, err := c.BookmarkService.ListHighlights(claims.UserID, uint(bookID), uint(pageNumber))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, highlights)
}

// RemoveHighlight godoc
// @Summary 删除高亮
// @Tags 书签
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "高亮ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "高亮不存在"
// @Router /api/highlights/{id} [delete]
func (c *BookmarkController) RemoveHighlight(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid highlight id")
		return
	}

	if err := c.BookmarkService.RemoveHighlight(uint(id), claims.UserID); err != nil {
		if errors.Is(err, util.ErrHighlightNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}
