package model

// Category 预定义的图书分类
type Category struct {
	BaseModel
	Name string `gorm:"size:100;unique;not null" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}

// Tag 用户自定义的图书标签
type Tag struct {
	BaseModel
	Name string `gorm:"size:50;unique;not null" json:"name"`
}

func (Tag) TableName() string {
	return "tags"
}

// Book 用户上传的图书
// swagger:model Book
type Book struct {
	BaseModel
	UserID     uint      `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Author     string    `gorm:"size:255" json:"author"`
	FileName   string    `gorm:"size:255;not null" json:"-"`              // 存储层的对象名
	FileURL    string    `gorm:"size:512" json:"fileUrl"`                 // 可访问的下载地址
	FileHash   string    `gorm:"size:64;uniqueIndex;not null" json:"-"`   // SHA-256 去重
	CategoryID *uint     `gorm:"type:bigint unsigned" json:"categoryId"`
	Category   *Category `json:"category,omitempty"`
	Tags       []Tag     `gorm:"many2many:book_tags;" json:"tags,omitempty"`
}

func (Book) TableName() string {
	return "books"
}
