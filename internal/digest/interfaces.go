package digest

//go:generate mockgen -source=interfaces.go -destination=mocks_test.go -package=digest

import (
	"context"
	"time"

	"github.com/curadda/digestbot/internal/docx"
	"github.com/curadda/digestbot/internal/scrape"
)

type Lister interface {
	ListArticles(ctx context.Context) ([]string, error)
}

type Scraper interface {
	Article(ctx context.Context, url string) (scrape.Article, error)
}

type Ledger interface {
	Record(ctx context.Context, urls []string) (fresh []string, err error)
}

type Translator interface {
	Translate(ctx context.Context, text string) string
}

type Builder interface {
	Build(ctx context.Context, templateURL string, blocks []docx.Block) (docxPath string, err error)
}

type Converter interface {
	PDF(ctx context.Context, docxPath string, date time.Time) (pdfPath string, err error)
}

type Publisher interface {
	SendDocument(ctx context.Context, path string, caption string) error
}
