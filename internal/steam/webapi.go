package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ErrPrivateProfile is returned when the Web API hides a user's library.
var ErrPrivateProfile = errors.New("steam profile game details are private")

type ownedGamesResponse struct {
	Response struct {
		GameCount *int `json:"game_count"`
		Games     []struct {
			AppID int `json:"appid"`
		} `json:"games"`
	} `json:"response"`
}

// WebAPIClient calls the Steam Web API with a user's API key.
type WebAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWebAPIClient creates a Steam Web API client.
func NewWebAPIClient(baseURL string, apiKey string, httpClient *http.Client, logger *zap.Logger) *WebAPIClient {
	return &WebAPIClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

// OwnedGames returns the app ids in steamID64's library, free games included.
func (c *WebAPIClient) OwnedGames(ctx context.Context, steamID64 string) ([]string, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamid", steamID64)
	params.Set("include_played_free_games", "1")
	params.Set("format", "json")
	endpoint := c.baseURL + "/IPlayerService/GetOwnedGames/v1/?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.logger.Debug("fetching-owned-games", zap.String("steam-id", steamID64))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Service: "steam web api", StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var owned ownedGamesResponse
	err = json.Unmarshal(body, &owned)
	if err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	// A private profile yields an empty response object.
	if owned.Response.GameCount == nil {
		return nil, ErrPrivateProfile
	}

	ids := make([]string, 0, len(owned.Response.Games))
	for _, game := range owned.Response.Games {
		ids = append(ids, strconv.Itoa(game.AppID))
	}

	c.logger.Info("fetched-owned-games",
		zap.String("steam-id", steamID64),
		zap.Int("count", len(ids)))

	return ids, nil
}
