package repository

import (
	"focusread_backend/internal/model"
	"strings"

	"gorm.io/gorm"
)

type BookRepository struct {
	DB *gorm.DB
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{DB: db}
}

func (r *BookRepository) Create(book *model.Book) error {
	return r.DB.Create(book).Error
}

func (r *BookRepository) FindByID(id uint) (*model.Book, error) {
	var book model.Book
	err := r.DB.Preload("Category").Preload("Tags").First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ExistsByUserAndTitle 同一用户不允许重复上传同名图书（忽略大小写）
func (r *BookRepository) ExistsByUserAndTitle(userID uint, title string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Book{}).
		Where("user_id = ? AND LOWER(title) = ?", userID, strings.ToLower(title)).
		Count(&count).Error
	return count > 0, err
}

// ExistsByHash 全局按文件哈希去重
func (r *BookRepository) ExistsByHash(hash string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Book{}).Where("file_hash = ?", hash).Count(&count).Error
	return count > 0, err
}

// BookFilter 列表查询条件
type BookFilter struct {
	Search     string // 按标题/作者模糊匹配
	CategoryID uint
	Tag        string
}

func (r *BookRepository) List(filter BookFilter, page, limit int) ([]model.Book, int64, error) {
	var books []model.Book
	var total int64

	query := r.DB.Model(&model.Book{}).Preload("Category").Preload("Tags")

	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR author LIKE ?", term, term)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Tag != "" {
		query = query.Joins("JOIN book_tags ON book_tags.book_id = books.id").
			Joins("JOIN tags ON tags.id = book_tags.tag_id").
			Where("tags.name = ?", strings.ToLower(filter.Tag))
	}

	query.Count(&total)

	offset := (page - 1) * limit
	err := query.Offset(offset).Limit(limit).Order("created_at desc").Find(&books).Error
	return books, total, err
}

func (r *BookRepository) DeleteByIDAndUserID(id, userID uint) (*model.Book, error) {
	var book model.Book
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&book).Error
	if err != nil {
		return nil, err
	}
	if err := r.DB.Delete(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindOrCreateCategory 按名称查找分类，不存在则创建（忽略大小写）
func (r *BookRepository) FindOrCreateCategory(name string) (*model.Category, error) {
	var category model.Category
	err := r.DB.Where("LOWER(name) = ?", strings.ToLower(name)).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	category = model.Category{Name: name}
	if err := r.DB.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindOrCreateTags 标签统一转小写后查找或创建
func (r *BookRepository) FindOrCreateTags(names []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		lower := strings.ToLower(strings.TrimSpace(name))
		if lower == "" {
			continue
		}

		var tag model.Tag
		err := r.DB.Where("name = ?", lower).First(&tag).Error
		if err == gorm.ErrRecordNotFound {
			tag = model.Tag{Name: lower}
			err = r.DB.Create(&tag).Error
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *BookRepository) ReplaceTags(book *model.Book, tags []model.Tag) error {
	return r.DB.Model(book).Association("Tags").Replace(tags)
}

func (r *BookRepository) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	err := r.DB.Order("name").Find(&categories).Error
	return categories, err
}

func (r *BookRepository) ListTags() ([]model.Tag, error) {
	var tags []model.Tag
	err := r.DB.Order("name").Find(&tags).Error
	return tags, err
}
