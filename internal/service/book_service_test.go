package service

import (
	"context"
	"errors"
	"focusread_backend/internal/model"
	"focusread_backend/internal/repository"
	"focusread_backend/internal/util"
	"io"
	"strings"
	"testing"

	"gorm.io/gorm"
)

// mockBookStore 内存版 BookStore
type mockBookStore struct {
	books      []model.Book
	categories []model.Category
	tags       []model.Tag
	nextID     uint
	createErr  error
}

func (m *mockBookStore) Create(book *model.Book) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	book.ID = m.nextID
	m.books = append(m.books, *book)
	return nil
}

func (m *mockBookStore) FindByID(id uint) (*model.Book, error) {
	for _, b := range m.books {
		if b.ID == id {
			copied := b
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookStore) ExistsByUserAndTitle(userID uint, title string) (bool, error) {
	for _, b := range m.books {
		if b.UserID == userID && strings.EqualFold(b.Title, title) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBookStore) ExistsByHash(hash string) (bool, error) {
	for _, b := range m.books {
		if b.FileHash == hash {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBookStore) List(filter repository.BookFilter, page, limit int) ([]model.Book, int64, error) {
	return m.books, int64(len(m.books)), nil
}

func (m *mockBookStore) DeleteByIDAndUserID(id, userID uint) (*model.Book, error) {
	for i, b := range m.books {
		if b.ID == id && b.UserID == userID {
			m.books = append(m.books[:i], m.books[i+1:]...)
			return &b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookStore) FindOrCreateCategory(name string) (*model.Category, error) {
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			copied := c
			return &copied, nil
		}
	}
	m.nextID++
	category := model.Category{Name: name}
	category.ID = m.nextID
	m.categories = append(m.categories, category)
	return &category, nil
}

func (m *mockBookStore) FindOrCreateTags(names []string) ([]model.Tag, error) {
	var out []model.Tag
	for _, name := range names {
		lower := strings.ToLower(strings.TrimSpace(name))
		if lower == "" {
			continue
		}
		m.nextID++
		tag := model.Tag{Name: lower}
		tag.ID = m.nextID
		m.tags = append(m.tags, tag)
		out = append(out, tag)
	}
	return out, nil
}

func (m *mockBookStore) ReplaceTags(book *model.Book, tags []model.Tag) error {
	book.Tags = tags
	return nil
}

func (m *mockBookStore) ListCategories() ([]model.Category, error) {
	return m.categories, nil
}

func (m *mockBookStore) ListTags() ([]model.Tag, error) {
	return m.tags, nil
}

// mockStorage 记录上传与删除的对象名
type mockStorage struct {
	objects map[string][]byte
	deleted []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{objects: make(map[string][]byte)}
}

func (m *mockStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.objects[filename] = data
	return "/uploads/" + filename, nil
}

func (m *mockStorage) Delete(ctx context.Context, filename string) error {
	delete(m.objects, filename)
	m.deleted = append(m.deleted, filename)
	return nil
}

func (m *mockStorage) GetURL(filename string) string {
	return "/uploads/" + filename
}

func uploadRequest(title string) BookUpload {
	return BookUpload{
		Title:       title,
		Author:      "Author",
		FileName:    "book.epub",
		ContentType: "application/epub+zip",
	}
}

func TestUploadStoresFileAndHash(t *testing.T) {
	store := &mockBookStore{}
	storage := newMockStorage()
	s := NewBookService(store, storage)

	book, err := s.Upload(context.Background(), 1, uploadRequest("Dune"), strings.NewReader("epub bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if book.FileHash == "" || len(book.FileHash) != 64 {
		t.Fatalf("expected sha-256 hex hash, got %q", book.FileHash)
	}
	if len(storage.objects) != 1 {
		t.Fatalf("expected 1 stored object, got %d", len(storage.objects))
	}
	if !strings.HasSuffix(book.FileName, ".epub") {
		t.Fatalf("expected original extension kept, got %q", book.FileName)
	}
}

func TestDuplicateTitleRejectedPerUser(t *testing.T) {
	store := &mockBookStore{}
	storage := newMockStorage()
	s := NewBookService(store, storage)

	if _, err := s.Upload(context.Background(), 1, uploadRequest("Dune"), strings.NewReader("a")); err != nil {
		t.Fatalf("first upload: %v", err)
	}

	_, err := s.Upload(context.Background(), 1, uploadRequest("dune"), strings.NewReader("b"))
	if !errors.Is(err, util.ErrDuplicateBookTitle) {
		t.Fatalf("expected ErrDuplicateBookTitle, got %v", err)
	}

	// 其他用户可以用同一个标题
	if _, err := s.Upload(context.Background(), 2, uploadRequest("Dune"), strings.NewReader("c")); err != nil {
		t.Fatalf("other user upload: %v", err)
	}
}

func TestDuplicateFileRejectedGlobally(t *testing.T) {
	store := &mockBookStore{}
	storage := newMockStorage()
	s := NewBookService(store, storage)

	if _, err := s.Upload(context.Background(), 1, uploadRequest("Dune"), strings.NewReader("same bytes")); err != nil {
		t.Fatalf("first upload: %v", err)
	}

	_, err := s.Upload(context.Background(), 2, uploadRequest("Other Title"), strings.NewReader("same bytes"))
	if !errors.Is(err, util.ErrDuplicateBookFile) {
		t.Fatalf("expected ErrDuplicateBookFile, got %v", err)
	}
	if len(storage.objects) != 1 {
		t.Fatalf("duplicate upload must not reach storage, got %d objects", len(storage.objects))
	}
}

func TestUploadCleansUpOnCreateFailure(t *testing.T) {
	store := &mockBookStore{createErr: errors.New("db down")}
	storage := newMockStorage()
	s := NewBookService(store, storage)

	if _, err := s.Upload(context.Background(), 1, uploadRequest("Dune"), strings.NewReader("bytes")); err == nil {
		t.Fatal("expected create failure")
	}
	if len(storage.objects) != 0 {
		t.Fatal("expected orphan object cleaned up")
	}
	if len(storage.deleted) != 1 {
		t.Fatalf("expected 1 delete call, got %d", len(storage.deleted))
	}
}

func TestDeleteBookRemovesStoredFile(t *testing.T) {
	store := &mockBookStore{}
	storage := newMockStorage()
	s := NewBookService(store, storage)

	book, err := s.Upload(context.Background(), 1, uploadRequest("Dune"), strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := s.DeleteBook(context.Background(), book.ID, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(storage.objects) != 0 {
		t.Fatal("expected stored file removed")
	}

	if err := s.DeleteBook(context.Background(), book.ID, 1); !errors.Is(err, util.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound on second delete, got %v", err)
	}
}

func TestDeleteBookOwnershipEnforced(t *testing.T) {
	store := &mockBookStore{}
	storage := newMockStorage()
	s := NewBookService(store, storage)

	book, _ := s.Upload(context.Background(), 1, uploadRequest("Dune"), strings.NewReader("bytes"))

	if err := s.DeleteBook(context.Background(), book.ID, 2); !errors.Is(err, util.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound for other user, got %v", err)
	}
}
