package model

// Bookmark 书签，同一用户同一本书同一页只允许一条
type Bookmark struct {
	BaseModel
	UserID     uint   `gorm:"index:idx_user_book_page,unique;type:bigint unsigned;not null" json:"userId"`
	BookID     uint   `gorm:"index:idx_user_book_page,unique;type:bigint unsigned;not null" json:"bookId"`
	PageNumber uint   `gorm:"index:idx_user_book_page,unique;not null" json:"pageNumber"`
	Note       string `gorm:"type:text" json:"note"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}

// Highlight 页面高亮，同一页可以有多条
type Highlight struct {
	BaseModel
	UserID     uint   `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	BookID     uint   `gorm:"index;type:bigint unsigned;not null" json:"bookId"`
	PageNumber uint   `gorm:"not null" json:"pageNumber"`
	Text       string `gorm:"type:text;not null" json:"text"`
}

func (Highlight) TableName() string {
	return "highlights"
}
