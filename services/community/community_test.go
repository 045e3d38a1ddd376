package community_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"learnhub/apperrors"
	"learnhub/database"
	"learnhub/models"
	communitymodels "learnhub/models/community"
	"learnhub/services/catalog"
	"learnhub/services/community"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:community%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	return db
}

func seedLessons(t *testing.T, db *gorm.DB) (lessonA, lessonB uint) {
	t.Helper()
	catalogSvc := catalog.NewService(db)
	course, err := catalogSvc.CreateCourse(catalog.CourseInput{Name: "Syntax"})
	require.NoError(t, err)
	first, err := catalogSvc.AddLesson(course.ID, catalog.LessonInput{Name: "Variables", Position: 1})
	require.NoError(t, err)
	second, err := catalogSvc.AddLesson(course.ID, catalog.LessonInput{Name: "Loops", Position: 2})
	require.NoError(t, err)
	return first.ID, second.ID
}

func seedStudent(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	user := models.User{Email: "ada@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func TestCreateReplyGuards(t *testing.T) {
	db := setupTestDB(t)
	svc := community.NewService(db)
	lessonA, lessonB := seedLessons(t, db)

	root, err := svc.CreateDiscussion(lessonA, "how does := differ from var?")
	require.NoError(t, err)

	_, err = svc.CreateReply(lessonA, root.ID, "short declaration infers the type")
	require.NoError(t, err)

	// a parent from another lesson is invalid
	_, err = svc.CreateReply(lessonB, root.ID, "wrong thread")
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateReply(lessonA, 999, "orphan")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.CreateDiscussion(999, "no such lesson")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.CreateDiscussion(lessonA, "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestSelfParentRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := community.NewService(db)
	lessonA, _ := seedLessons(t, db)

	node, err := svc.CreateDiscussion(lessonA, "root")
	require.NoError(t, err)

	// the creation flow cannot produce this; a raw update must not either
	var reloaded communitymodels.Discussion
	require.NoError(t, db.First(&reloaded, node.ID).Error)
	reloaded.ParentID = &reloaded.ID
	assert.Error(t, db.Save(&reloaded).Error)
}

func TestLessonThreadOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := community.NewService(db)
	lessonA, lessonB := seedLessons(t, db)

	rootOne, err := svc.CreateDiscussion(lessonA, "first root")
	require.NoError(t, err)
	rootTwo, err := svc.CreateDiscussion(lessonA, "second root")
	require.NoError(t, err)

	replyOne, err := svc.CreateReply(lessonA, rootOne.ID, "first reply")
	require.NoError(t, err)
	replyTwo, err := svc.CreateReply(lessonA, rootOne.ID, "second reply")
	require.NoError(t, err)
	nested, err := svc.CreateReply(lessonA, replyOne.ID, "nested reply")
	require.NoError(t, err)

	// another lesson's forest stays separate
	_, err = svc.CreateDiscussion(lessonB, "other lesson root")
	require.NoError(t, err)

	thread, err := svc.LessonThread(lessonA)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, rootOne.ID, thread[0].ID)
	assert.Equal(t, rootTwo.ID, thread[1].ID)

	require.Len(t, thread[0].Replies, 2)
	assert.Equal(t, replyOne.ID, thread[0].Replies[0].ID)
	assert.Equal(t, replyTwo.ID, thread[0].Replies[1].ID)
	require.Len(t, thread[0].Replies[0].Replies, 1)
	assert.Equal(t, nested.ID, thread[0].Replies[0].Replies[0].ID)
	assert.Empty(t, thread[1].Replies)

	// the order is stable across rebuilds
	again, err := svc.LessonThread(lessonA)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, thread[0].ID, again[0].ID)
	assert.Equal(t, thread[1].ID, again[1].ID)
}

func TestBlogPostModeration(t *testing.T) {
	db := setupTestDB(t)
	svc := community.NewService(db)
	studentID := seedStudent(t, db)

	post, err := svc.CreatePost(studentID, "My first month of Go", "it went fine")
	require.NoError(t, err)
	assert.Equal(t, communitymodels.PostCreated, post.Status)

	// a created post cannot be published or archived before moderation
	assert.True(t, apperrors.IsConflict(svc.ModeratePost(post.ID, community.DecisionPublish)))
	assert.True(t, apperrors.IsConflict(svc.ArchivePost(post.ID)))

	require.NoError(t, svc.SubmitForModeration(post.ID))
	// once submitted it never returns to created
	assert.True(t, apperrors.IsConflict(svc.SubmitForModeration(post.ID)))

	require.NoError(t, svc.ModeratePost(post.ID, community.DecisionPublish))
	require.NoError(t, svc.ArchivePost(post.ID))

	// archived is terminal
	assert.True(t, apperrors.IsConflict(svc.SubmitForModeration(post.ID)))

	assert.True(t, apperrors.IsValidation(svc.ModeratePost(post.ID, "REJECT")))
	assert.True(t, apperrors.IsNotFound(svc.SubmitForModeration(999)))

	_, err = svc.CreatePost(999, "ghost", "")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestModerationArchiveDecision(t *testing.T) {
	db := setupTestDB(t)
	svc := community.NewService(db)
	studentID := seedStudent(t, db)

	post, err := svc.CreatePost(studentID, "Spam", "buy now")
	require.NoError(t, err)
	require.NoError(t, svc.SubmitForModeration(post.ID))
	require.NoError(t, svc.ModeratePost(post.ID, community.DecisionArchive))

	reloaded := communitymodels.BlogPost{}
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, communitymodels.PostArchived, reloaded.Status)
}

func TestListPostsPublishedOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := community.NewService(db)
	studentID := seedStudent(t, db)

	_, err := svc.CreatePost(studentID, "Draft", "wip")
	require.NoError(t, err)

	published, err := svc.CreatePost(studentID, "Published", "done")
	require.NoError(t, err)
	require.NoError(t, svc.SubmitForModeration(published.ID))
	require.NoError(t, svc.ModeratePost(published.ID, community.DecisionPublish))

	posts, err := svc.ListPosts(community.PostListOptions{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Published", posts[0].Title)

	all, err := svc.ListPosts(community.PostListOptions{IncludeUnpublished: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.ListPosts(community.PostListOptions{IncludeUnpublished: true, StudentID: studentID, Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
