package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Client talks to the notification gateway that renders and delivers
// the actual mail/SMS. The engine never sees message content; it only
// names the recipient and the triggering entity.
type Client struct {
	httpClient  *retryablehttp.Client
	baseURL     string
	apiKey      string
	rateLimiter *rate.Limiter
}

func NewClient(baseURL, apiKey string) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.Logger = nil

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (c *Client) SetMaxRetries(retries int) {
	c.httpClient.RetryMax = retries
}

func (c *Client) NotifyCandidateOfOpportunity(ctx context.Context, candidateID, opportunityID int) error {
	return c.sendNotification(ctx, "candidate-opportunity", map[string]any{
		"candidateId":   candidateID,
		"opportunityId": opportunityID,
	})
}

func (c *Client) NotifyRecruiterOfArchiveCandidate(ctx context.Context, opportunityID int) error {
	return c.sendNotification(ctx, "recruiter-archive", map[string]any{
		"opportunityId": opportunityID,
	})
}

func (c *Client) NotifyRecruiterNoResponse(ctx context.Context, opportunityID int) error {
	return c.sendNotification(ctx, "recruiter-no-response", map[string]any{
		"opportunityId": opportunityID,
	})
}

func (c *Client) sendNotification(ctx context.Context, kind string, payload map[string]any) error {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error encoding payload: %v", err)
	}

	url := c.baseURL + "/notifications/" + kind
	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	return nil
}
