package community

import "gorm.io/gorm"

// PostStatus defines the moderation status of a blog post
type PostStatus string

const (
	PostCreated      PostStatus = "CREATED"
	PostInModeration PostStatus = "IN_MODERATION"
	PostPublished    PostStatus = "PUBLISHED"
	PostArchived     PostStatus = "ARCHIVED"
)

// Once submitted a post can never return to CREATED.
var postTransitions = map[PostStatus][]PostStatus{
	PostCreated:      {PostInModeration},
	PostInModeration: {PostPublished, PostArchived},
	PostPublished:    {PostArchived},
	PostArchived:     {},
}

// ValidPostStatus reports whether s is in the closed status set.
func ValidPostStatus(s PostStatus) bool {
	_, ok := postTransitions[s]
	return ok
}

// CanTransition reports whether a post may move from one status to another.
func (from PostStatus) CanTransition(to PostStatus) bool {
	for _, next := range postTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// BlogPost is a student-authored article subject to moderation. Only
// PUBLISHED posts appear in public listings.
type BlogPost struct {
	gorm.Model
	StudentID uint       `gorm:"not null;index" json:"studentId"`
	Title     string     `gorm:"not null" json:"title"`
	Body      string     `gorm:"type:text" json:"body"`
	Status    PostStatus `gorm:"type:varchar(20);default:'CREATED'" json:"status"`
}
