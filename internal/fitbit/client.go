package fitbit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"hrvd/internal/models"
	"hrvd/internal/providers"
	"hrvd/internal/structures"
)

type ClientInterface interface {
	AuthorizeURL(user structures.UserConfig) string
	ExchangeCode(ctx context.Context, user structures.UserConfig, code string) (models.TokenRecord, error)
	Refresh(ctx context.Context, user structures.UserConfig) (models.TokenRecord, error)
	FetchHRV(ctx context.Context, user structures.UserConfig, start, end string) ([]byte, error)
}

// Client talks to the provider's OAuth2 token endpoint and HRV API.
// It reads TokenRecords from the store but never writes them — the
// orchestrator and the callback handler own the store updates.
type Client struct {
	conf   *structures.Config
	tokens *models.TokenStore
	logger providers.Logger
	http   *http.Client
}

func NewClient(conf *structures.Config, tokens *models.TokenStore, logger providers.Logger) ClientInterface {
	return &Client{
		conf:   conf,
		tokens: tokens,
		logger: logger,
		http:   &http.Client{Timeout: conf.Provider.Timeout},
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// providerRejection is an internal marker for a non-2xx token endpoint
// response; callers wrap it into ExchangeError or RefreshError.
type providerRejection struct {
	statusCode int
	body       string
}

func (r *providerRejection) Error() string {
	return fmt.Sprintf("provider rejected token request (status %d)", r.statusCode)
}

// AuthorizeURL builds the provider's authorization page URL for the
// given user's client identity.
func (c *Client) AuthorizeURL(user structures.UserConfig) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", user.ClientID)
	q.Set("redirect_uri", user.RedirectURI)
	q.Set("scope", c.conf.Provider.Scope)
	q.Set("expires_in", strconv.Itoa(c.conf.Provider.TokenLifetime))
	return c.conf.Provider.AuthorizeURL + "?" + q.Encode()
}

func (c *Client) ExchangeCode(ctx context.Context, user structures.UserConfig, code string) (models.TokenRecord, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", user.ClientID)
	form.Set("redirect_uri", user.RedirectURI)

	rec, err := c.tokenRequest(ctx, user, form)
	if err != nil {
		if rej, ok := err.(*providerRejection); ok {
			return models.TokenRecord{}, &ExchangeError{StatusCode: rej.statusCode, Body: rej.body}
		}
		return models.TokenRecord{}, fmt.Errorf("exchanging authorization code for %s: %w", user.ID, err)
	}
	return rec, nil
}

func (c *Client) Refresh(ctx context.Context, user structures.UserConfig) (models.TokenRecord, error) {
	rec, ok := c.tokens.Get(user.ID)
	if !ok || rec.RefreshToken == "" {
		return models.TokenRecord{}, ErrMissingRefreshToken
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", rec.RefreshToken)
	form.Set("client_id", user.ClientID)

	next, err := c.tokenRequest(ctx, user, form)
	if err != nil {
		if rej, ok := err.(*providerRejection); ok {
			return models.TokenRecord{}, &RefreshError{StatusCode: rej.statusCode, Body: rej.body}
		}
		return models.TokenRecord{}, fmt.Errorf("refreshing access token for %s: %w", user.ID, err)
	}
	return next, nil
}

// tokenRequest posts a grant to the token endpoint with HTTP Basic
// client authentication and maps the response into a TokenRecord with
// expiry = now + expires_in.
func (c *Client) tokenRequest(ctx context.Context, user structures.UserConfig, form url.Values) (models.TokenRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.conf.Provider.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return models.TokenRecord{}, err
	}
	req.SetBasicAuth(user.ClientID, user.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.TokenRecord{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.TokenRecord{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.TokenRecord{}, &providerRejection{statusCode: resp.StatusCode, body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return models.TokenRecord{}, fmt.Errorf("parsing token response: %w", err)
	}

	return models.TokenRecord{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		Expiry:       time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}

// FetchHRV reads the HRV series for [start, end] (YYYY-MM-DD) with the
// user's access token and returns the raw response body.
func (c *Client) FetchHRV(ctx context.Context, user structures.UserConfig, start, end string) ([]byte, error) {
	rec, ok := c.tokens.Get(user.ID)
	if !ok || rec.AccessToken == "" {
		return nil, ErrNoToken
	}

	c.logger.Debugf(providers.TypeApp, "Fetching HRV data for %s (%s..%s)", user.ID, start, end)

	endpoint := fmt.Sprintf("%s/1/user/-/hrv/date/%s/%s.json", c.conf.Provider.APIBase, start, end)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+rec.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
