package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront-service/internal/domain"

	"github.com/go-redis/redis/v8"
)

const (
	settingsCacheKey = "settings"
	settingsCacheTTL = 30 * time.Second
)

type SettingsHTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	redisClient *redis.Client
}

func NewSettingsClient(baseURL string, timeout time.Duration) *SettingsHTTPClient {
	return &SettingsHTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *SettingsHTTPClient) SetRedisClient(client *redis.Client) {
	c.redisClient = client
}

func (c *SettingsHTTPClient) GetSettings(ctx context.Context) (*domain.Settings, error) {
	if c.redisClient != nil {
		if cached, err := c.redisClient.Get(ctx, settingsCacheKey).Result(); err == nil {
			var s domain.Settings
			if err := json.Unmarshal([]byte(cached), &s); err == nil {
				return &s, nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/settings", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("settings store returned status %d", resp.StatusCode)
	}

	var s domain.Settings
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, err
	}

	if c.redisClient != nil {
		if data, err := json.Marshal(&s); err == nil {
			c.redisClient.Set(ctx, settingsCacheKey, data, settingsCacheTTL)
		}
	}

	return &s, nil
}
