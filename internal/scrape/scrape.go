package scrape

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/curadda/digestbot/pkg/errors"
	"github.com/curadda/digestbot/pkg/logger"
)

type BlockKind int

const (
	Heading BlockKind = iota + 1
	Heading2
	Heading4
	Paragraph
	ListItem
)

type Block struct {
	Kind BlockKind
	Text string
}

type Article struct {
	URL    string
	Title  string
	Blocks []Block
}

type Config struct {
	BaseURL string `yaml:"baseUrl"`
	Pages   int    `yaml:"pages"`
}

func New(cfg Config, client *http.Client, log logger.Logger) *Scraper {
	if client == nil {
		client = http.DefaultClient
	}
	return &Scraper{
		cfg:    cfg,
		client: client,
		log:    log.With("scraper"),
	}
}

type Scraper struct {
	cfg    Config
	client *http.Client
	log    logger.Logger
}

// ListArticles collects article URLs from the listing pages,
// most recent first, in page order.
func (s *Scraper) ListArticles(ctx context.Context) ([]string, error) {
	var urls []string

	for page := 1; page <= s.cfg.Pages; page++ {
		url := s.cfg.BaseURL
		if page > 1 {
			url = fmt.Sprintf("%spage/%d/", s.cfg.BaseURL, page)
		}

		doc, err := s.fetch(ctx, url)
		if err != nil {
			return nil, errors.WrapFailf(err, "fetch listing page %d", page)
		}

		doc.Find("h1#list").Each(func(_ int, h1 *goquery.Selection) {
			href, ok := h1.Find("a").First().Attr("href")
			if ok && href != "" {
				urls = append(urls, href)
			}
		})
	}

	return urls, nil
}

// Article scrapes one article page into an ordered list of content blocks.
func (s *Scraper) Article(ctx context.Context, url string) (Article, error) {
	doc, err := s.fetch(ctx, url)
	if err != nil {
		return Article{}, errors.WrapFail(err, "fetch article page")
	}

	main := doc.Find("div.inside_post.column.content_width").First()
	if main.Length() == 0 {
		return Article{}, errors.Fail("find main content div")
	}

	heading := main.Find("h1#list").First()
	if heading.Length() == 0 {
		return Article{}, errors.Fail("find article heading")
	}

	title := heading.Text()
	blocks := []Block{{Kind: Heading, Text: title}}

	main.Children().Each(func(_ int, tag *goquery.Selection) {
		if tag.HasClass("sharethis-inline-share-buttons") || tag.HasClass("prenext") {
			return
		}

		switch goquery.NodeName(tag) {
		case "p":
			blocks = append(blocks, Block{Kind: Paragraph, Text: tag.Text()})
		case "h2":
			blocks = append(blocks, Block{Kind: Heading2, Text: tag.Text()})
		case "h4":
			blocks = append(blocks, Block{Kind: Heading4, Text: tag.Text()})
		case "ul":
			tag.Find("li").Each(func(_ int, li *goquery.Selection) {
				blocks = append(blocks, Block{Kind: ListItem, Text: li.Text()})
			})
		}
	})

	return Article{URL: url, Title: title, Blocks: blocks}, nil
}

func (s *Scraper) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapFail(err, "build request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.WrapFail(err, "do request")
	}
	defer func() {
		err := resp.Body.Close()
		if err != nil {
			s.log.Warn(errors.WrapFail(err, "close response body"))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Failf("fetch %q: unexpected status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	return doc, errors.WrapFail(err, "parse html")
}
