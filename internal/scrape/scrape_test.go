package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curadda/digestbot/pkg/logger"
)

const listingPage1 = `<html><body>
<h1 id="list"><a href="https://example.org/first-article/">First</a></h1>
<h1 id="list"><a href="https://example.org/second-article/">Second</a></h1>
<h1>not a listing</h1>
</body></html>`

const listingPage2 = `<html><body>
<h1 id="list"><a href="https://example.org/third-article/">Third</a></h1>
<h1 id="list"><a>no href</a></h1>
</body></html>`

const articlePage = `<html><body>
<div class="inside_post column content_width">
<h1 id="list">Article Title</h1>
<p>First paragraph.</p>
<div class="sharethis-inline-share-buttons st-center st-has-labels st-inline-share-buttons st-animated">share</div>
<h2>Background</h2>
<p>Second paragraph.</p>
<h4>Key Facts</h4>
<ul><li>first item</li><li>second item</li></ul>
<div class="prenext">prev next</div>
</div>
</body></html>`

func TestScraper_ListArticles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/current-affairs/":
			fmt.Fprint(w, listingPage1)
		case "/current-affairs/page/2/":
			fmt.Fprint(w, listingPage2)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL + "/current-affairs/", Pages: 2}, srv.Client(), logger.NewStub())

	urls, err := s.ListArticles(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://example.org/first-article/",
		"https://example.org/second-article/",
		"https://example.org/third-article/",
	}, urls)
}

func TestScraper_ListArticles_badStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := New(Config{BaseURL: srv.URL + "/", Pages: 1}, srv.Client(), logger.NewStub())

	_, err := s.ListArticles(context.Background())
	require.Error(t, err)
}

func TestScraper_Article(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articlePage)
	}))
	defer srv.Close()

	s := New(Config{}, srv.Client(), logger.NewStub())

	article, err := s.Article(context.Background(), srv.URL+"/some-article/")
	require.NoError(t, err)

	require.Equal(t, "Article Title", article.Title)
	require.Equal(t, []Block{
		{Kind: Heading, Text: "Article Title"},
		{Kind: Paragraph, Text: "First paragraph."},
		{Kind: Heading2, Text: "Background"},
		{Kind: Paragraph, Text: "Second paragraph."},
		{Kind: Heading4, Text: "Key Facts"},
		{Kind: ListItem, Text: "first item"},
		{Kind: ListItem, Text: "second item"},
	}, article.Blocks)
}

func TestScraper_Article_malformed(t *testing.T) {
	type testcase struct {
		name string
		page string
	}

	tests := [...]testcase{
		{
			name: "no content div",
			page: `<html><body><p>nothing here</p></body></html>`,
		},
		{
			name: "no heading",
			page: `<html><body><div class="inside_post column content_width"><p>text</p></div></body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.page)
			}))
			defer srv.Close()

			s := New(Config{}, srv.Client(), logger.NewStub())

			_, err := s.Article(context.Background(), srv.URL)
			require.Error(t, err)
		})
	}
}
