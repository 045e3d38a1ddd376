// Package community implements the community module: per-lesson discussion
// forests and moderated student blog posts. Independent of commerce state.
package community

import (
	"errors"

	"learnhub/apperrors"
	"learnhub/models"
	"learnhub/models/catalog"
	"learnhub/models/community"

	"gorm.io/gorm"
)

// Notifier receives optional transition notifications.
type Notifier interface {
	PostPublished(postID uint)
}

// Service exposes community operations over the underlying store.
type Service struct {
	DB       *gorm.DB
	Notifier Notifier // optional
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// CreateDiscussion starts a new root thread under a lesson.
func (s *Service) CreateDiscussion(lessonID uint, body string) (*community.Discussion, error) {
	if body == "" {
		return nil, apperrors.Validation("discussion", "Body", "body is required")
	}
	if err := s.lessonExists(lessonID); err != nil {
		return nil, err
	}

	discussion := community.Discussion{LessonID: lessonID, Body: body}
	if err := s.DB.Create(&discussion).Error; err != nil {
		return nil, apperrors.FromStore("discussion", 0, err)
	}
	return &discussion, nil
}

// CreateReply adds a child node under an existing discussion. The parent must
// belong to the lesson the reply is intended for; cross-lesson parenting is
// invalid.
func (s *Service) CreateReply(lessonID, parentID uint, body string) (*community.Discussion, error) {
	if body == "" {
		return nil, apperrors.Validation("discussion", "Body", "body is required")
	}

	var reply community.Discussion
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var parent community.Discussion
		if err := tx.First(&parent, parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("discussion", parentID)
			}
			return apperrors.FromStore("discussion", parentID, err)
		}
		if parent.LessonID != lessonID {
			return apperrors.Validation("discussion", "ParentID", "parent belongs to a different lesson")
		}

		reply = community.Discussion{LessonID: lessonID, ParentID: &parentID, Body: body}
		if err := tx.Create(&reply).Error; err != nil {
			return apperrors.FromStore("discussion", 0, err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &reply, nil
}

// ThreadNode is a discussion with its replies attached.
type ThreadNode struct {
	community.Discussion
	Replies []*ThreadNode `json:"replies"`
}

// LessonThread reconstructs the lesson's discussion forest. Root nodes are
// ordered by creation time, children recursively by creation time under each
// parent, so pagination and tests see a stable order.
func (s *Service) LessonThread(lessonID uint) ([]*ThreadNode, error) {
	var nodes []community.Discussion
	if err := s.DB.Where("lesson_id = ?", lessonID).Order("created_at asc, id asc").Find(&nodes).Error; err != nil {
		return nil, apperrors.FromStore("discussion", 0, err)
	}

	byID := make(map[uint]*ThreadNode, len(nodes))
	var roots []*ThreadNode
	for _, node := range nodes {
		byID[node.ID] = &ThreadNode{Discussion: node}
	}
	for _, node := range nodes {
		wrapped := byID[node.ID]
		if node.ParentID == nil {
			roots = append(roots, wrapped)
			continue
		}
		if parent, ok := byID[*node.ParentID]; ok {
			parent.Replies = append(parent.Replies, wrapped)
		}
	}
	return roots, nil
}

// CreatePost creates a blog post draft for a student.
func (s *Service) CreatePost(studentID uint, title, body string) (*community.BlogPost, error) {
	if title == "" {
		return nil, apperrors.Validation("blog_post", "Title", "title is required")
	}

	var user models.User
	if err := s.DB.Where("id = ? AND is_deleted = ?", studentID, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user", studentID)
		}
		return nil, apperrors.FromStore("user", studentID, err)
	}

	post := community.BlogPost{
		StudentID: studentID,
		Title:     title,
		Body:      body,
		Status:    community.PostCreated,
	}
	if err := s.DB.Create(&post).Error; err != nil {
		return nil, apperrors.FromStore("blog_post", 0, err)
	}
	return &post, nil
}

// SubmitForModeration moves a freshly created post into the moderation queue.
// Once submitted a post can never return to CREATED.
func (s *Service) SubmitForModeration(postID uint) error {
	return s.transitionPost(postID, community.PostInModeration)
}

// ModerationDecision is a moderator's verdict on a submitted post.
type ModerationDecision string

const (
	DecisionPublish ModerationDecision = "PUBLISH"
	DecisionArchive ModerationDecision = "ARCHIVE"
)

// ModeratePost applies a moderation decision to a post in the queue.
func (s *Service) ModeratePost(postID uint, decision ModerationDecision) error {
	var to community.PostStatus
	switch decision {
	case DecisionPublish:
		to = community.PostPublished
	case DecisionArchive:
		to = community.PostArchived
	default:
		return apperrors.Validation("blog_post", "Decision", "unknown decision "+string(decision))
	}

	if err := s.transitionPost(postID, to); err != nil {
		return err
	}
	if to == community.PostPublished && s.Notifier != nil {
		s.Notifier.PostPublished(postID)
	}
	return nil
}

// ArchivePost retires a published post.
func (s *Service) ArchivePost(postID uint) error {
	return s.transitionPost(postID, community.PostArchived)
}

func (s *Service) transitionPost(postID uint, to community.PostStatus) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var post community.BlogPost
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("blog_post", postID)
			}
			return apperrors.FromStore("blog_post", postID, err)
		}
		if !post.Status.CanTransition(to) {
			return apperrors.Conflict("blog_post", postID,
				"illegal transition "+string(post.Status)+" -> "+string(to))
		}

		result := tx.Model(&community.BlogPost{}).
			Where("id = ? AND status = ?", postID, post.Status).
			Update("status", to)
		if result.Error != nil {
			return apperrors.FromStore("blog_post", postID, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Concurrency("blog_post", nil)
		}
		return nil
	})
}

// PostListOptions controls blog listing behaviour. Only published posts are
// visible unless IncludeUnpublished is set.
type PostListOptions struct {
	IncludeUnpublished bool
	StudentID          uint
	Page               int
	Limit              int
}

// ListPosts lists blog posts, newest first. Public listings show published
// posts only.
func (s *Service) ListPosts(opts PostListOptions) ([]community.BlogPost, error) {
	db := s.DB.Model(&community.BlogPost{})
	if !opts.IncludeUnpublished {
		db = db.Where("status = ?", community.PostPublished)
	}
	if opts.StudentID != 0 {
		db = db.Where("student_id = ?", opts.StudentID)
	}
	if opts.Page > 0 && opts.Limit > 0 {
		db = db.Offset((opts.Page - 1) * opts.Limit).Limit(opts.Limit)
	}

	var posts []community.BlogPost
	if err := db.Order("created_at desc, id desc").Find(&posts).Error; err != nil {
		return nil, apperrors.FromStore("blog_post", 0, err)
	}
	return posts, nil
}

func (s *Service) lessonExists(lessonID uint) error {
	var lesson catalog.Lesson
	if err := s.DB.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("lesson", lessonID)
		}
		return apperrors.FromStore("lesson", lessonID, err)
	}
	return nil
}
