package articles

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/curadda/digestbot/internal/repo"
	"github.com/curadda/digestbot/pkg/errors"
	"github.com/curadda/digestbot/pkg/logger"
)

// quizMarker tags quiz pages which are never part of the digest.
const quizMarker = "daily-current-affairs-quiz"

var urlIndex = mongo.IndexModel{
	Keys:    bson.D{{Key: "url", Value: 1}},
	Options: options.Index().SetName("url_unique").SetUnique(true),
}

func New(ctx context.Context, log logger.Logger, cfg repo.Config) (API, error) {
	mongoRepo, err := repo.New[Article](ctx, log, cfg, urlIndex)
	if err != nil {
		return nil, errors.WrapFail(err, "setup mongo")
	}

	return &repoAPI{repo: mongoRepo}, nil
}

type repoAPI struct {
	repo repo.Repo[Article]
}

func (r *repoAPI) Record(ctx context.Context, urls []string) ([]string, error) {
	fresh := make([]string, 0, len(urls))

	for _, url := range filterQuiz(urls) {
		_, err := r.repo.Insert(ctx, Article{
			URL:    url,
			SeenAt: time.Now().UTC().UnixMilli(),
		})
		if err != nil {
			// the unique index rejects urls recorded earlier,
			// in this batch or by a concurrent run
			if repo.IsDuplicate(err) {
				continue
			}
			return nil, errors.WrapFail(err, "record url")
		}

		fresh = append(fresh, url)
	}

	return fresh, nil
}

func (r *repoAPI) Seen(ctx context.Context, url string) (bool, error) {
	found, err := r.repo.Select(ctx, repo.ByField("url", url))
	if err != nil {
		return false, errors.WrapFail(err, "select by url")
	}

	return len(found) > 0, nil
}

func (r *repoAPI) Close(ctx context.Context) error {
	return r.repo.Close(ctx)
}

func filterQuiz(urls []string) []string {
	kept := make([]string, 0, len(urls))
	for _, url := range urls {
		if strings.Contains(url, quizMarker) {
			continue
		}
		kept = append(kept, url)
	}
	return kept
}
