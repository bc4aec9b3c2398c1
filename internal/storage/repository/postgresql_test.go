package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minwoojang/husband-er/internal/models"
)

func TestStorage_CreateAndReadPost(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	authorUID := factory.CreateUser(t, "testuser", "", "user", "active")

	gotID, err := storage.CreatePost(context.Background(), models.Post{
		AuthorUID:  authorUID,
		AuthorName: "든든한 남편 1호",
		Title:      "설거지 분담 어떻게 하세요",
		Content:    "저희 집은 요일제로 나눴습니다",
		Category:   "free",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, gotID)

	post, err := storage.ReadPost(context.Background(), gotID)
	require.NoError(t, err)
	assert.Equal(t, "설거지 분담 어떻게 하세요", post.Title)
	assert.Equal(t, "free", post.Category)
	assert.Equal(t, 0, post.Views)
	assert.Equal(t, 0, post.Likes)

	_, err = storage.ReadPost(context.Background(), 9999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestStorage_ListPostsByCategory(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	authorUID := factory.CreateUser(t, "testuser", "", "user", "active")
	factory.CreatePost(t, authorUID, "남편", "자유글", "내용", "free")
	factory.CreatePost(t, authorUID, "남편", "긴급글", "내용", "urgent")
	factory.CreatePost(t, authorUID, "남편", "두번째 자유글", "내용", "free")

	all, err := storage.ListPosts(context.Background(), "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// Сортировка от новых к старым
	assert.Equal(t, "두번째 자유글", all[0].Title)

	urgent, err := storage.ListPosts(context.Background(), "urgent", 10, 0)
	require.NoError(t, err)
	require.Len(t, urgent, 1)
	assert.Equal(t, "긴급글", urgent[0].Title)
}

func TestStorage_UpdateAndRemovePost(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	authorUID := factory.CreateUser(t, "testuser", "", "user", "active")
	postID := factory.CreatePost(t, authorUID, "남편", "원래 제목", "원래 내용", "free")
	factory.CreateComment(t, postID, authorUID, "남편", "댓글입니다")

	rows, err := storage.UpdatePost(context.Background(), postID, models.DummyPost{
		Title:    "수정된 제목",
		Content:  "수정된 내용",
		Category: "question",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	post, err := storage.ReadPost(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, "수정된 제목", post.Title)
	assert.Equal(t, "question", post.Category)

	rows, err = storage.UpdatePost(context.Background(), 9999, models.DummyPost{
		Title: "없는 글", Content: "내용", Category: "free",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, rows)

	rows, err = storage.RemovePost(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	// Комментарии удаляются каскадно вместе с постом
	var commentCount int
	err = storage.DB.QueryRow("SELECT COUNT(*) FROM comments WHERE post_id = $1", postID).Scan(&commentCount)
	require.NoError(t, err)
	assert.Equal(t, 0, commentCount)
}

func TestStorage_AddAndRemoveLike(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	authorUID := factory.CreateUser(t, "author", "", "user", "active")
	likerUID := factory.CreateUser(t, "liker", "", "user", "active")
	postID := factory.CreatePost(t, authorUID, "남편", "제목", "내용", "free")

	changed, err := storage.AddLike(context.Background(), postID, likerUID)
	require.NoError(t, err)
	assert.True(t, changed)

	// Повторный лайк того же пользователя не меняет счётчик
	changed, err = storage.AddLike(context.Background(), postID, likerUID)
	require.NoError(t, err)
	assert.False(t, changed)

	post, err := storage.ReadPost(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, 1, post.Likes)

	changed, err = storage.RemoveLike(context.Background(), postID, likerUID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = storage.RemoveLike(context.Background(), postID, likerUID)
	require.NoError(t, err)
	assert.False(t, changed)

	post, err = storage.ReadPost(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, 0, post.Likes)
}

func TestStorage_UserLifecycle(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	uid, err := storage.CreateUser(context.Background(), models.User{
		NaverID:  "naver-123",
		Username: "당당한 남편 3호",
		Gender:   "M",
		Role:     models.RoleUser,
		Status:   models.StatusActive,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	byNaver, err := storage.GetUserByNaverID(context.Background(), "naver-123")
	require.NoError(t, err)
	assert.Equal(t, uid, byNaver.UID)
	assert.Equal(t, "당당한 남편 3호", byNaver.Username)
	assert.NotNil(t, byNaver.LastLoginAt)

	status, err := storage.GetUserStatus(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, status)

	rows, err := storage.UpdateUserStatus(context.Background(), uid, models.StatusBanned)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	status, err = storage.GetUserStatus(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBanned, status)

	require.NoError(t, storage.SetExamPassed(context.Background(), uid))
	user, err := storage.GetUser(context.Background(), uid)
	require.NoError(t, err)
	assert.True(t, user.ExamPassed)

	_, err = storage.GetUserByUsername(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestStorage_ResolveReport(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	reporterUID := factory.CreateUser(t, "reporter", "", "user", "active")
	authorUID := factory.CreateUser(t, "author", "", "user", "active")
	postID := factory.CreatePost(t, authorUID, "남편", "제목", "내용", "free")
	reportID := factory.CreateReport(t, reporterUID, "post", postID, "욕설이 있습니다", "pending")

	rows, err := storage.ResolveReport(context.Background(), reportID, "resolved")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	report, err := storage.ReadReport(context.Background(), reportID)
	require.NoError(t, err)
	assert.Equal(t, "resolved", report.Status)
	assert.NotNil(t, report.ResolvedAt)

	// Повторная обработка не затрагивает уже решённую жалобу
	rows, err = storage.ResolveReport(context.Background(), reportID, "dismissed")
	require.NoError(t, err)
	assert.Equal(t, 0, rows)

	pending, err := storage.CountPendingReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, pending)
}
