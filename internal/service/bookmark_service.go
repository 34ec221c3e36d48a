package service

import (
	"focusread_backend/internal/model"
	"focusread_backend/internal/repository"
)

// BookmarkService 书签与高亮
type BookmarkService struct {
	BookmarkRepo *repository.BookmarkRepository
}

func NewBookmarkService(bookmarkRepo *repository.BookmarkRepository) *BookmarkService {
	return &BookmarkService{BookmarkRepo: bookmarkRepo}
}

func (s *BookmarkService) AddBookmark(userID, bookID, pageNumber uint, note string) (*model.Bookmark, error) {
	bookmark := &model.Bookmark{
		UserID:     userID,
		BookID:     bookID,
		PageNumber: pageNumber,
		Note:       note,
	}
	if err := s.BookmarkRepo.Create(bookmark); err != nil {
		return nil, err
	}
	return bookmark, nil
}

func (s *BookmarkService) ListBookmarks(userID uint) ([]model.Bookmark, error) {
	return s.BookmarkRepo.FindByUserID(userID)
}

func (s *BookmarkService) RemoveBookmark(id, userID uint) error {
	return s.BookmarkRepo.Delete(id, userID)
}

func (s *BookmarkService) AddHighlight(userID, bookID, pageNumber uint, text string) (*model.Highlight, error) {
	highlight := &model.Highlight{
		UserID:     userID,
		BookID:     bookID,
		PageNumber: pageNumber,
		Text:       text,
	}
	if err := s.BookmarkRepo.CreateHighlight(highlight); err != nil {
		return nil, err
	}
	return highlight, nil
}

func (s *BookmarkService) ListHighlights(userID, bookID, pageNumber uint) ([]model.Highlight, error) {
	return s.BookmarkRepo.FindHighlights(userID, bookID, pageNumber)
}

func (s *BookmarkService) RemoveHighlight(id, userID uint) error {
	return s.BookmarkRepo.DeleteHighlight(id, userID)
}
