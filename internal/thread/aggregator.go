package thread

import (
	"context"

	"github.com/VitaminP8/postboard/models"
)

// PostThread - пост со всеми комментариями и ответами, только для чтения.
type PostThread struct {
	models.Post
	Comments []models.Comment `json:"comments"`
}

type PostReader interface {
	ListAll(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, id uint) (*models.Post, error)
}

type CommentReader interface {
	ListForPost(ctx context.Context, postID uint) ([]models.Comment, error)
}

// Aggregator собирает дерево Post -> Comments -> Replies из списков сервисов.
// Порядок задают сами сервисы: посты новые первыми, комментарии и ответы старые первыми.
type Aggregator struct {
	posts    PostReader
	comments CommentReader
}

func NewAggregator(posts PostReader, comments CommentReader) *Aggregator {
	return &Aggregator{
		posts:    posts,
		comments: comments,
	}
}

// Feed - все посты с ветками обсуждения
func (a *Aggregator) Feed(ctx context.Context) ([]PostThread, error) {
	posts, err := a.posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	threads := make([]PostThread, 0, len(posts))
	for _, p := range posts {
		t, err := a.build(ctx, p)
		if err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	return threads, nil
}

// Post - ветка одного поста; NotFoundError, если поста нет
func (a *Aggregator) Post(ctx context.Context, id uint) (*PostThread, error) {
	p, err := a.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	t, err := a.build(ctx, *p)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (a *Aggregator) build(ctx context.Context, p models.Post) (PostThread, error) {
	comments, err := a.comments.ListForPost(ctx, p.ID)
	if err != nil {
		return PostThread{}, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	for i := range comments {
		if comments[i].Replies == nil {
			comments[i].Replies = []models.Reply{}
		}
	}
	return PostThread{Post: p, Comments: comments}, nil
}
