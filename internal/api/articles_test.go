package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"er-patch-tracker/internal/config"

	"github.com/stretchr/testify/require"
)

const listingBody = `{
  "per_page": 2,
  "current_page": 1,
  "total_page": 3,
  "article_count": 6,
  "articles": [
    {
      "id": 2101,
      "thumbnail_url": "https://cdn.example/2101.png",
      "view_count": 42,
      "created_at": "2025-03-06T02:00:00Z",
      "updated_at": "2025-03-06T03:00:00Z",
      "i18ns": {"ko_KR": {"title": "2025.03.06 - 6.4 패치노트", "content_link": "/posts/news/2101"}},
      "url": ""
    },
    {
      "id": 2099,
      "thumbnail_url": "",
      "view_count": 7,
      "created_at": "2025-03-01T02:00:00Z",
      "updated_at": "2025-03-01T02:00:00Z",
      "i18ns": {"en_US": {"title": "Hotfix", "content_link": "/posts/news/2099"}},
      "url": "https://playeternalreturn.com/posts/news/2099"
    }
  ]
}`

func TestListPage(t *testing.T) {
	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/posts/news", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotUA = r.UserAgent()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(listingBody))
	}))
	defer srv.Close()

	client := NewArticleClient(&config.Config{
		SiteBaseURL: srv.URL + "/",
		SiteLocale:  "ko_KR",
		UserAgent:   "patchtool-test",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	page, err := client.ListPage(ctx, 1)
	require.NoError(t, err)
	require.Contains(t, gotQuery, "category=patchnote")
	require.Contains(t, gotQuery, "page=1")
	require.Equal(t, "patchtool-test", gotUA)
	require.Equal(t, 3, page.TotalPage)
	require.Len(t, page.Articles, 2)

	first := page.Articles[0].ToPatchNote(client.Locale())
	require.Equal(t, 2101, first.ID)
	require.Equal(t, "2025.03.06 - 6.4 패치노트", first.Title)
	require.Equal(t, "/posts/news/2101", first.Link)
	require.Equal(t, 42, first.ViewCount)

	second := page.Articles[1].ToPatchNote(client.Locale())
	require.Empty(t, second.Title)
	require.Equal(t, "https://playeternalreturn.com/posts/news/2099", second.Link)
}

func TestListPageStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewArticleClient(&config.Config{SiteBaseURL: srv.URL, SiteLocale: "ko_KR"})
	_, err := client.ListPage(context.Background(), 2)
	require.EqualError(t, err, "API error: 503")
}
