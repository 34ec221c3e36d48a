package controller

import (
	"errors"
	"focusread_backend/internal/repository"
	"focusread_backend/internal/service"
	"focusread_backend/internal/util"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type BookController struct {
	BookService *service.BookService
}

func NewBookController(bookService *service.BookService) *BookController {
	return &BookController{BookService: bookService}
}

// Upload godoc
// @Summary 上传图书
// @Description 上传图书文件，同一用户不允许重复标题，相同文件（按哈希）全局只允许上传一次
// @Tags 图书
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "图书文件"
// @Param   title formData string true "书名"
// @Param   author formData string false "作者"
// @Param   category formData string false "分类名"
// @Param   tags formData string false "标签，逗号分隔"
// @Success 201 {object} util.Response{data=model.Book} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "标题或文件重复"
// @Router /api/books [post]
func (c *BookController) Upload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	title := strings.TrimSpace(ctx.PostForm("title"))
	if title == "" {
		util.BadRequest(ctx, "title is required")
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	var tags []string
	if raw := ctx.PostForm("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	upload := service.BookUpload{
		Title:       title,
		Author:      ctx.PostForm("author"),
		Category:    ctx.PostForm("category"),
		Tags:        tags,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}

	book, err := c.BookService.Upload(ctx.Request.Context(), claims.UserID, upload, file)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrDuplicateBookTitle), errors.Is(err, util.ErrDuplicateBookFile):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, book)
}

// List godoc
// @Summary 图书列表
// @Description 分页查询图书，支持标题/作者搜索、分类与标签过滤
// @Tags 图书
// @Produce  json
// @Security ApiKeyAuth
// @Param   search query string false "标题/作者模糊匹配"
// @Param   categoryId query int false "分类ID"
// @Param   tag query string false "标签名"
// @Param   page query int false "页码，默认 1"
// @Param   limit query int false "每页条数，默认 20"
// @Success 200 {object} util.Response{data=util.PageResponse} "Success"
// @Router /api/books [get]
func (c *BookController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	categoryID, _ := strconv.ParseUint(ctx.Query("categoryId"), 10, 32)

	filter := repository.BookFilter{
		Search:     ctx.Query("search"),
		CategoryID: uint(categoryID),
		Tag:        ctx.Query("tag"),
	}

	books, total, err := c.BookService.ListBooks(filter, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  books,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Get godoc
// @Summary 图书详情
// @Tags 图书
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "图书ID"
// @Success 200 {object} util.Response{data=model.Book} "Success"
// @Failure 404 {object} util.Response "图书不存在"
// @Router /api/books/{id} [get]
func (c *BookController) Get(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid book id")
		return
	}

	book, err := c.BookService.GetBook(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrBookNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, book)
}

// Delete godoc
// @Summary 删除图书
// @Description 删除自己上传的图书并清理存储层文件
// @Tags 图书
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "图书ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "图书不存在"
// @Router /api/books/{id} [delete]
func (c *BookController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid book id")
		return
	}

	if err := c.BookService.DeleteBook(ctx.Request.Context(), uint(id), claims.UserID); err != nil {
		if errors.Is(err, util.ErrBookNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// UpdateTagsRequest 替换标签请求
type UpdateTagsRequest struct {
	Tags []string `json:"tags" binding:"required"`
}

// UpdateTags godoc
// @Summary 替换图书标签
// @Tags 图书
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "图书ID"
// @Param   body body UpdateTagsRequest true "标签列表"
// @Success 200 {object} util.Response{data=model.Book} "Success"
// @Failure 404 {object} util.Response "图书不存在"
// @Router /api/books/{id}/tags [put]
func (c *BookController) UpdateTags(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid book id")
		return
	}

	var req UpdateTagsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	book, err := c.BookService.UpdateTags(uint(id), claims.UserID, req.Tags)
	if err != nil {
		if errors.Is(err, util.ErrBookNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, book)
}

// Categories godoc
// @Summary 分类列表
// @Tags 图书
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Category} "Success"
// @Router /api/books/categories [get]
func (c *BookController) Categories(ctx *gin.Context) {
	categories, err := c.BookService.ListCategories()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}

// Tags godoc
// @Summary 标签列表
// @Tags 图书
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Tag} "Success"
// @Router /api/books/tags [get]
func (c *BookController) Tags(ctx *gin.Context) {
	tags, err := c.BookService.ListTags()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tags)
}
