package repository

import (
	"focusread_backend/internal/model"
	"focusread_backend/internal/util"

	"gorm.io/gorm"
)

type BookmarkRepository struct {
	DB *gorm.DB
}

func NewBookmarkRepository(db *gorm.DB) *BookmarkRepository {
	return &BookmarkRepository{DB: db}
}

func (r *BookmarkRepository) Create(bookmark *model.Bookmark) error {
	var count int64
	err := r.DB.Model(&model.Bookmark{}).
		Where("user_id = ? AND book_id = ? AND page_number = ?",
			bookmark.UserID, bookmark.BookID, bookmark.PageNumber).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return util.ErrBookmarkExists
	}
	return r.DB.Create(bookmark).Error
}

func (r *BookmarkRepository) FindByUserID(userID uint) ([]model.Bookmark, error) {
	var bookmarks []model.Bookmark
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at desc").Find(&bookmarks).Error
	return bookmarks, err
}

func (r *BookmarkRepository) Delete(id, userID uint) error {
	res := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrBookmarkNotFound
	}
	return nil
}

func (r *BookmarkRepository) CreateHighlight(highlight *model.Highlight) error {
	return r.DB.Create(highlight).Error
}

// FindHighlights 按书和页码过滤，按 (page, created_at) 排序
func (r *BookmarkRepository) FindHighlights(userID uint, bookID, pageNumber uint) ([]model.Highlight, error) {
	query := r.DB.Where("user_id = ?", userID)
	if bookID != 0 {
		query = query.Where("book_id = ?", bookID)
	}
	if pageNumber != 0 {
		query = query.Where("page_number = ?", pageNumber)
	}

	var highlights []model.Highlight
	err := query.Order("page_number, created_at").Find(&highlights).Error
	return highlights, err
}

func (r *BookmarkRepository) DeleteHighlight(id, userID uint) error {
	res := r.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Highlight{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrHighlightNotFound
	}
	return nil
}
