package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"focusread_backend/internal/model"
	"focusread_backend/internal/repository"
	"focusread_backend/internal/util"
	"focusread_backend/pkg/logger"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BookService 处理图书上传、检索与删除。
// 上传去重分两层：同一用户不允许重复标题，全局不允许重复文件哈希。
type BookService struct {
	BookRepo repository.BookStore
	Storage  StorageProvider
}

func NewBookService(bookRepo repository.BookStore, storage StorageProvider) *BookService {
	return &BookService{
		BookRepo: bookRepo,
		Storage:  storage,
	}
}

// BookUpload 上传请求
type BookUpload struct {
	Title       string
	Author      string
	Category    string
	Tags        []string
	FileName    string
	ContentType string
}

// Upload 保存图书文件并落库。
// 文件先整体读入以计算 SHA-256，哈希命中则拒绝（ErrDuplicateBookFile），
// 不会产生存储层写入。对象名用 UUID 加原始扩展名，避免路径冲突。
func (s *BookService) Upload(ctx context.Context, userID uint, upload BookUpload, file io.Reader) (*model.Book, error) {
	exists, err := s.BookRepo.ExistsByUserAndTitle(userID, upload.Title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrDuplicateBookTitle
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	exists, err = s.BookRepo.ExistsByHash(hash)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrDuplicateBookFile
	}

	objectName := uuid.New().String() + filepath.Ext(upload.FileName)
	fileURL, err := s.Storage.Upload(ctx, objectName, bytes.NewReader(data), int64(len(data)), upload.ContentType)
	if err != nil {
		return nil, err
	}

	book := &model.Book{
		UserID:   userID,
		Title:    upload.Title,
		Author:   upload.Author,
		FileName: objectName,
		FileURL:  fileURL,
		FileHash: hash,
	}

	if upload.Category != "" {
		category, err := s.BookRepo.FindOrCreateCategory(upload.Category)
		if err != nil {
			return nil, err
		}
		book.CategoryID = &category.ID
		book.Category = category
	}

	tags, err := s.BookRepo.FindOrCreateTags(upload.Tags)
	if err != nil {
		return nil, err
	}
	book.Tags = tags

	if err := s.BookRepo.Create(book); err != nil {
		// 落库失败时清理已上传的对象，避免孤儿文件
		if delErr := s.Storage.Delete(ctx, objectName); delErr != nil {
			logger.Log.Warn("orphan book file cleanup failed",
				zap.String("object", objectName), zap.Error(delErr))
		}
		return nil, err
	}
	return book, nil
}

func (s *BookService) GetBook(id uint) (*model.Book, error) {
	book, err := s.BookRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrBookNotFound
	}
	return book, err
}

func (s *BookService) ListBooks(filter repository.BookFilter, page, limit int) ([]model.Book, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.BookRepo.List(filter, page, limit)
}

// DeleteBook 删除图书记录并清理存储层文件。
// 存储删除失败只记日志，数据库记录已删不回滚。
func (s *BookService) DeleteBook(ctx context.Context, id, userID uint) error {
	book, err := s.BookRepo.DeleteByIDAndUserID(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrBookNotFound
	}
	if err != nil {
		return err
	}

	if err := s.Storage.Delete(ctx, book.FileName); err != nil {
		logger.Log.Warn("book file delete failed",
			zap.String("object", book.FileName), zap.Error(err))
	}
	return nil
}

func (s *BookService) ListCategories() ([]model.Category, error) {
	return s.BookRepo.ListCategories()
}

func (s *BookService) ListTags() ([]model.Tag, error) {
	return s.BookRepo.ListTags()
}

// UpdateTags 整体替换一本书的标签
func (s *BookService) UpdateTags(id, userID uint, names []string) (*model.Book, error) {
	book, err := s.GetBook(id)
	if err != nil {
		return nil, err
	}
	if book.UserID != userID {
		return nil, util.ErrBookNotFound
	}

	tags, err := s.BookRepo.FindOrCreateTags(names)
	if err != nil {
		return nil, err
	}
	if err := s.BookRepo.ReplaceTags(book, tags); err != nil {
		return nil, err
	}
	book.Tags = tags
	return book, nil
}
