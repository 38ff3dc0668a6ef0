package digest

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/curadda/digestbot/internal/docx"
	"github.com/curadda/digestbot/internal/report"
	"github.com/curadda/digestbot/internal/scrape"
	"github.com/curadda/digestbot/pkg/errors"
	"github.com/curadda/digestbot/pkg/logger"
)

// ErrBusy is returned by TryRun when a run is already in flight.
var ErrBusy = errors.Error("digest run already in progress")

type Config struct {
	TemplateURL string        `yaml:"templateUrl"`
	Interval    time.Duration `yaml:"interval"`
}

type Report struct {
	RanAt       time.Time `json:"ran_at"`
	NewArticles []string  `json:"new_articles"`
	PDFName     string    `json:"pdf_name,omitempty"`
	Published   bool      `json:"published"`
}

type Deps struct {
	Lister     Lister
	Scraper    Scraper
	Ledger     Ledger
	Translator Translator
	Builder    Builder
	Converter  Converter
	Publisher  Publisher
}

func New(log logger.Logger, cfg Config, deps Deps) *Service {
	return &Service{
		cfg:  cfg,
		deps: deps,
		now:  time.Now,
		log:  log.With("digest"),
	}
}

type Service struct {
	cfg  Config
	deps Deps
	now  func() time.Time
	log  logger.Logger

	inFlight sync.Mutex

	lastMu sync.Mutex
	last   *Report
}

// TryRun runs the pipeline unless another run is already in flight.
func (s *Service) TryRun(ctx context.Context) (Report, error) {
	if !s.inFlight.TryLock() {
		return Report{}, ErrBusy
	}
	defer s.inFlight.Unlock()

	return s.run(ctx)
}

// Run waits for any in-flight run to finish, then runs the pipeline.
func (s *Service) Run(ctx context.Context) (Report, error) {
	s.inFlight.Lock()
	defer s.inFlight.Unlock()

	return s.run(ctx)
}

// Last returns the report of the most recent completed run.
func (s *Service) Last() (Report, bool) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()

	if s.last == nil {
		return Report{}, false
	}
	return *s.last, true
}

func (s *Service) run(ctx context.Context) (Report, error) {
	now := s.now()
	rep := Report{RanAt: now}

	urls, err := s.deps.Lister.ListArticles(ctx)
	if err != nil {
		return rep, errors.WrapFail(err, "list articles")
	}

	fresh, err := s.deps.Ledger.Record(ctx, urls)
	if err != nil {
		return rep, errors.WrapFail(err, "record urls")
	}
	rep.NewArticles = fresh

	if len(fresh) == 0 {
		s.log.Infof("no new articles, nothing to publish")
		s.store(rep)
		return rep, nil
	}

	s.log.Infof("found %d new articles", len(fresh))

	blocks, titles, err := s.compose(ctx, fresh)
	if err != nil {
		return rep, errors.WrapFail(err, "compose digest")
	}

	docxPath, err := s.deps.Builder.Build(ctx, s.cfg.TemplateURL, blocks)
	if err != nil {
		return rep, errors.WrapFail(err, "build document")
	}
	defer s.cleanup(docxPath)

	pdfPath, err := s.deps.Converter.PDF(ctx, docxPath, now)
	if err != nil {
		return rep, errors.WrapFail(err, "convert to pdf")
	}
	defer s.cleanup(pdfPath)

	err = s.deps.Publisher.SendDocument(ctx, pdfPath, report.Caption(now, titles))
	if err != nil {
		return rep, errors.WrapFail(err, "publish digest")
	}

	rep.PDFName = filepath.Base(pdfPath)
	rep.Published = true
	s.store(rep)

	return rep, nil
}

// compose scrapes every fresh article and renders its blocks bilingual:
// the translation first, the original right after, as the source digest
// lays them out.
func (s *Service) compose(ctx context.Context, urls []string) ([]docx.Block, []string, error) {
	var (
		blocks []docx.Block
		titles []string
	)

	for _, url := range urls {
		article, err := s.deps.Scraper.Article(ctx, url)
		if err != nil {
			return nil, nil, errors.WrapFailf(err, "scrape %q", url)
		}

		titles = append(titles, article.Title)

		for _, b := range article.Blocks {
			translated := s.deps.Translator.Translate(ctx, b.Text)
			original := b.Text

			if b.Kind == scrape.ListItem {
				translated = "• " + translated
				original = "• " + original
			}

			style := styleFor(b.Kind)
			blocks = append(blocks,
				docx.Block{Style: style, Text: translated},
				docx.Block{Style: style, Text: original},
			)
		}
	}

	return blocks, titles, nil
}

func (s *Service) store(rep Report) {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	s.last = &rep
}

func (s *Service) cleanup(path string) {
	err := os.Remove(path)
	if err != nil {
		s.log.Warn(errors.WrapFailf(err, "remove %q", path))
	}
}

func styleFor(kind scrape.BlockKind) docx.Style {
	switch kind {
	case scrape.Heading:
		return docx.Heading1
	case scrape.Heading2:
		return docx.Heading2
	case scrape.Heading4:
		return docx.Heading4
	case scrape.ListItem:
		return docx.ListBullet
	default:
		return docx.Normal
	}
}
