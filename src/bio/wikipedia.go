package bio

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	wikipediaAPIURL = "https://en.wikipedia.org/w/api.php"

	// minimumImageSize is the default for Client.MinImageSize. Images in
	// articles smaller than this in either dimension are usually icons,
	// logos or navigation decorations. Not artist photos.
	minimumImageSize = 400

	// imagesLimit is the value for the "imlimit" query parameter. No more
	// than this number of image titles will be inspected per article.
	imagesLimit = 25
)

// Client is a client for the Wikipedia action API. It implements Fetcher.
// It is safe for concurrent use.
type Client struct {
	// MinImageSize is the minimal width and height in pixels accepted for
	// images returned in Biography.ImageURLs.
	MinImageSize int

	useragent  string
	apiURL     string
	httpClient *http.Client
}

// NewClient returns a fully configured Wikipedia client. The useragent is
// sent with every request as the Wikimedia API etiquette asks clients to
// identify themselves.
func NewClient(useragent string) *Client {
	return &Client{
		MinImageSize: minimumImageSize,
		useragent:    useragent,
		apiURL:       wikipediaAPIURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch implements Fetcher using the Wikipedia API. The article extract and
// the article images are retrieved concurrently and the function returns
// when the whole request chain has finished.
func (c *Client) Fetch(ctx context.Context, artist string) (Biography, error) {
	var fetched Biography
	if artist == "" {
		return fetched, ErrBioNotFound
	}

	var mu sync.Mutex

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		title, article, err := c.getArticle(ctx, artist)
		if err != nil {
			logFetchError(ctx, "article", artist, err)
			return ctx.Err()
		}

		mu.Lock()
		fetched.Title = title
		fetched.Article = article
		mu.Unlock()
		return nil
	})
	grp.Go(func() error {
		titles, err := c.getImageTitles(ctx, artist)
		if err != nil {
			logFetchError(ctx, "image list", artist, err)
			return ctx.Err()
		}

		imgGrp, ctx := errgroup.WithContext(ctx)
		for _, imageTitle := range titles {
			imageTitle := imageTitle
			imgGrp.Go(func() error {
				urls, err := c.getImageURLs(ctx, imageTitle)
				if err != nil {
					logFetchError(ctx, "image info", imageTitle, err)
					return ctx.Err()
				}

				mu.Lock()
				fetched.ImageURLs = append(fetched.ImageURLs, urls...)
				mu.Unlock()
				return nil
			})
		}

		return imgGrp.Wait()
	})

	if err := grp.Wait(); err != nil {
		return Biography{}, err
	}

	if fetched.Title == "" && fetched.Article == "" && len(fetched.ImageURLs) == 0 {
		return Biography{}, ErrBioNotFound
	}

	return fetched, nil
}

// getArticle returns the title and the HTML extract of the article for
// an artist.
func (c *Client) getArticle(ctx context.Context, artist string) (string, string, error) {
	params := url.Values{}
	params.Set("titles", artist)
	params.Set("prop", "extracts")

	var root wikiQueryRoot
	if err := c.apiQuery(ctx, params, &root); err != nil {
		return "", "", err
	}

	for _, page := range root.Query.Pages {
		if page.Title == "" || page.Extract == "" {
			continue
		}
		return page.Title, page.Extract, nil
	}

	return "", "", nil
}

// getImageTitles returns the file titles of all images in the article for
// an artist which look like photographs. Only JPEG and PNG files qualify.
func (c *Client) getImageTitles(ctx context.Context, artist string) ([]string, error) {
	params := url.Values{}
	params.Set("titles", artist)
	params.Set("prop", "images")
	params.Set("imlimit", fmt.Sprintf("%d", imagesLimit))

	var root wikiQueryRoot
	if err := c.apiQuery(ctx, params, &root); err != nil {
		return nil, err
	}

	var titles []string
	for _, page := range root.Query.Pages {
		for _, image := range page.Images {
			lower := strings.ToLower(image.Title)
			if strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".png") {
				titles = append(titles, image.Title)
			}
		}
	}

	return titles, nil
}

// getImageURLs resolves an image file title to its URLs. URLs for images
// smaller than MinImageSize in any dimension are discarded.
func (c *Client) getImageURLs(ctx context.Context, imageTitle string) ([]string, error) {
	params := url.Values{}
	params.Set("titles", imageTitle)
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url|size")

	var root wikiQueryRoot
	if err := c.apiQuery(ctx, params, &root); err != nil {
		return nil, err
	}

	var urls []string
	for _, page := range root.Query.Pages {
		for _, info := range page.ImageInfo {
			if info.URL == "" {
				continue
			}
			if info.Width < c.MinImageSize || info.Height < c.MinImageSize {
				continue
			}
			if _, err := url.Parse(info.URL); err != nil {
				continue
			}
			urls = append(urls, info.URL)
		}
	}

	return urls, nil
}

// apiQuery makes a single request to the Wikipedia action API and decodes
// the JSON response into `response`. The format and action parameters are
// the same for every request in the chain and are set here.
func (c *Client) apiQuery(
	ctx context.Context,
	params url.Values,
	response interface{},
) error {
	params.Set("format", "json")
	params.Set("action", "query")

	reqURL := fmt.Sprintf("%s?%s", c.apiURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("error creating Wikipedia API req: %w", err)
	}
	req.Header.Set("User-Agent", c.useragent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Wikipedia API returned HTTP %d", resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(response); err != nil {
		return fmt.Errorf("decoding Wikipedia API response: %w", err)
	}

	return nil
}

// logFetchError logs an error from one request in the fetch chain. Errors
// caused by the context going away are not worth a log line since the whole
// chain is being torn down anyway.
func logFetchError(ctx context.Context, what, subject string, err error) {
	if ctx.Err() != nil {
		return
	}
	log.Printf("Wikipedia artist biography error for %s (%s): %s\n", subject, what, err)
}

// The following are structures only used to decode the JSON responses from
// the Wikipedia API. And only the stuff we are interested in and nothing
// more. The "pages" object is keyed by page ID which is of no interest so
// a map is used to get to the values.
type wikiQueryRoot struct {
	Query wikiQuery `json:"query"`
}

type wikiQuery struct {
	Pages map[string]wikiPage `json:"pages"`
}

type wikiPage struct {
	Title     string          `json:"title"`
	Extract   string          `json:"extract"`
	Images    []wikiImage     `json:"images"`
	ImageInfo []wikiImageInfo `json:"imageinfo"`
}

type wikiImage struct {
	Title string `json:"title"`
}

type wikiImageInfo struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
