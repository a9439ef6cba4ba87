package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/singleflight"
)

type ProductInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Category string `json:"category"`
}

const productCacheTTL = time.Minute

type CatalogHTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	redisClient *redis.Client
	group       singleflight.Group
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogHTTPClient {
	return &CatalogHTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *CatalogHTTPClient) SetRedisClient(client *redis.Client) {
	c.redisClient = client
}

func (c *CatalogHTTPClient) GetProduct(ctx context.Context, id string) (*ProductInfo, error) {
	cacheKey := "product:" + id

	if c.redisClient != nil {
		if cached, err := c.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var p ProductInfo
			if err := json.Unmarshal([]byte(cached), &p); err == nil {
				return &p, nil
			}
		}
	}

	// Concurrent lookups of the same product collapse into one request.
	v, err, _ := c.group.Do(id, func() (interface{}, error) {
		return c.fetch(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	p, _ := v.(*ProductInfo)
	if p == nil {
		return nil, nil
	}

	if c.redisClient != nil {
		if data, err := json.Marshal(p); err == nil {
			c.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}

	return p, nil
}

func (c *CatalogHTTPClient) fetch(ctx context.Context, id string) (*ProductInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/%s", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog service returned status %d", resp.StatusCode)
	}

	var p ProductInfo
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}
