package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/parkpulse/survey-server/validation"
)

// Location is the subset of the location record the wizard cares about.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Client talks to the survey server's public API. It implements Submitter.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// LookupLocation resolves a slug to its location record. The wizard only
// uses the name for display; callers should treat a failure as cosmetic.
func (c *Client) LookupLocation(ctx context.Context, slug string) (*Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/locations/"+slug, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("location %q not found", slug)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("location lookup failed: %s", resp.Status)
	}

	var loc Location
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

type submitPayload struct {
	LocationSlug string `json:"locationSlug"`
	validation.SurveyInput
}

// Submit posts the completed answer set. Anything but 201 is an error; the
// server's error string is surfaced when it sent one.
func (c *Client) Submit(ctx context.Context, slug string, in validation.SurveyInput) error {
	body, err := json.Marshal(submitPayload{LocationSlug: slug, SurveyInput: in})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/survey/submit", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		return nil
	}

	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("submit rejected: %s", apiErr.Error)
	}
	return fmt.Errorf("submit failed: %s", resp.Status)
}
