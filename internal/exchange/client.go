package exchange

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// APIError is a structured rejection returned by the exchange.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("exchange rejected request: status %d, code %d: %s", e.Status, e.Code, e.Message)
}

// Client talks to a Binance-style REST API. Public endpoints are unsigned;
// account and order endpoints carry a millisecond timestamp, a receive window
// and an HMAC-SHA256 signature over the sorted query string.
type Client struct {
	BaseURL    string
	APIKey     string
	apiSecret  string
	QuoteAsset string
	RecvWindow int
	DryRun     bool
	HTTP       *http.Client
}

// NewClient creates a client with optional proxy support.
func NewClient(baseURL, apiKey, apiSecret, quoteAsset string, recvWindow int, dryRun bool, proxyURL string) *Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		apiSecret:  apiSecret,
		QuoteAsset: quoteAsset,
		RecvWindow: recvWindow,
		DryRun:     dryRun,
		HTTP: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// sign computes the HMAC-SHA256 signature over the encoded query string.
// url.Values.Encode sorts parameters by key, which is the canonical order.
func (c *Client) sign(params url.Values) string {
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(params.Encode()))
	return hex.EncodeToString(mac.Sum(nil))
}

// serverTime fetches the exchange clock to avoid recvWindow rejections from
// local clock drift.
func (c *Client) serverTime() (int64, error) {
	resp, err := c.HTTP.Get(c.BaseURL + "/api/v3/time")
	if err != nil {
		return 0, fmt.Errorf("fetch server time: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch server time: status %d", resp.StatusCode)
	}
	var result struct {
		ServerTime int64 `json:"serverTime"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode server time: %w", err)
	}
	return result.ServerTime, nil
}

// get performs an unsigned GET against a public endpoint.
func (c *Client) get(endpoint string, params url.Values, out any) error {
	u := c.BaseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	resp, err := c.HTTP.Get(u)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return apiError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// doSigned performs a signed request, retrying transient failures with
// bounded exponential backoff. The timestamp and signature are rebuilt on
// every attempt: signatures are single-use and time-bound.
func (c *Client) doSigned(method, endpoint string, params url.Values, out any) error {
	const maxRetries = 3
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			log.Printf("[WARN] signed request %s failed (attempt %d/%d): %v, retrying in %v",
				endpoint, attempt, maxRetries+1, lastErr, backoff)
			time.Sleep(backoff)
		}
		err := c.signedOnce(method, endpoint, params, out)
		if err == nil {
			return nil
		}
		lastErr = err
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			// The venue understood and refused; retrying the same request
			// will not change its mind.
			return err
		}
	}
	return fmt.Errorf("all %d attempts exhausted: %w", maxRetries+1, lastErr)
}

func (c *Client) signedOnce(method, endpoint string, params url.Values, out any) error {
	ts, err := c.serverTime()
	if err != nil {
		return err
	}

	signed := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			signed.Add(k, v)
		}
	}
	signed.Set("timestamp", strconv.FormatInt(ts, 10))
	signed.Set("recvWindow", strconv.Itoa(c.RecvWindow))
	signed.Set("signature", c.sign(withoutSignature(signed)))

	req, err := http.NewRequest(method, c.BaseURL+endpoint+"?"+signed.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-MBX-APIKEY", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return apiError(resp.StatusCode, body)
	}
	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode %s response: %w", endpoint, err)
		}
	}
	return nil
}

// withoutSignature copies params minus the signature key, so the signature is
// computed over exactly the parameters the server will verify.
func withoutSignature(params url.Values) url.Values {
	out := url.Values{}
	for k, vs := range params {
		if k == "signature" {
			continue
		}
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	return out
}

func apiError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		return fmt.Errorf("exchange error: status %d, body: %s", status, string(body))
	}
	return apiErr
}
