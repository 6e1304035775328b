package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"er-patch-tracker/internal/config"
	"er-patch-tracker/internal/constants"
	"er-patch-tracker/internal/domain"

	"github.com/valyala/fasthttp"
)

// ArticleClient reads the site's news listing endpoint.
type ArticleClient struct {
	baseURL   string
	locale    string
	userAgent string
	client    *fasthttp.Client
}

func NewArticleClient(cfg *config.Config) *ArticleClient {
	return &ArticleClient{
		baseURL:   strings.TrimRight(cfg.SiteBaseURL, "/"),
		locale:    cfg.SiteLocale,
		userAgent: cfg.UserAgent,
		client: &fasthttp.Client{
			MaxConnsPerHost:     4,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *ArticleClient) Locale() string {
	return c.locale
}

// ListPage fetches one page (1-based) of the patch note category.
func (c *ArticleClient) ListPage(ctx context.Context, page int) (*ArticleListResponse, error) {
	q := url.Values{}
	q.Set("category", constants.ListingCategory)
	q.Set("page", strconv.Itoa(page))
	q.Set("search_type", "title")
	q.Set("search_text", "")
	return doRequest[ArticleListResponse](ctx, c, c.baseURL+"/api/v1/posts/news?"+q.Encode())
}

func doRequest[T any](ctx context.Context, client *ArticleClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if client.userAgent != "" {
		req.Header.SetUserAgent(client.userAgent)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type ArticleListResponse struct {
	PerPage      int       `json:"per_page"`
	CurrentPage  int       `json:"current_page"`
	TotalPage    int       `json:"total_page"`
	ArticleCount int       `json:"article_count"`
	Articles     []Article `json:"articles"`
}

type Article struct {
	ID           int                    `json:"id"`
	ThumbnailURL string                 `json:"thumbnail_url"`
	ViewCount    int                    `json:"view_count"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	I18ns        map[string]ArticleI18n `json:"i18ns"`
	URL          string                 `json:"url"`
}

type ArticleI18n struct {
	Title       string `json:"title"`
	ContentLink string `json:"content_link"`
}

// ToPatchNote projects the article onto the locale's title and link.
func (a Article) ToPatchNote(locale string) domain.PatchNote {
	i18n := a.I18ns[locale]
	link := a.URL
	if link == "" {
		link = i18n.ContentLink
	}
	return domain.PatchNote{
		ID:           a.ID,
		Title:        i18n.Title,
		Link:         link,
		ThumbnailURL: a.ThumbnailURL,
		ViewCount:    a.ViewCount,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
