// Package gemini provides the Gemini-backed earnings calendar client
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

const (
	DefaultModel      = "gemini-2.5-flash"
	DefaultTimeout    = 30 * time.Second
	DefaultRateLimit  = 2 // requests per second
	DefaultWindowDays = 30
	DefaultExchange   = "Nasdaq"

	// Low temperature keeps the JSON output formatting deterministic.
	generationTemperature = 0.1
)

// Client implements the EarningsClient interface
type Client struct {
	client     *genai.Client
	model      string
	exchange   string
	windowDays int
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithExchange sets the exchange focus for the calendar prompt
func WithExchange(exchange string) ClientOption {
	return func(c *Client) {
		if exchange != "" {
			c.exchange = exchange
		}
	}
}

// WithWindowDays sets how many days ahead to request
func WithWindowDays(days int) ClientOption {
	return func(c *Client) {
		if days > 0 {
			c.windowDays = days
		}
	}
}

// WithTimeout bounds each fetch call
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini earnings client
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		client:     genaiClient,
		model:      DefaultModel,
		exchange:   DefaultExchange,
		windowDays: DefaultWindowDays,
		timeout:    DefaultTimeout,
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:     common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// FetchCalendar fetches the upcoming earnings calendar via a search-grounded
// generation call. Returns the sanitized event list and the grounding source
// URLs cited for it.
func (c *Client) FetchCalendar(ctx context.Context, referenceDate time.Time) (*models.EarningsFetch, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	today := referenceDate.Format(models.DateLayout)
	prompt := buildCalendarPrompt(c.exchange, today, c.windowDays)

	c.logger.Debug().Str("model", c.model).Str("reference_date", today).Msg("Fetching earnings calendar")

	config := &genai.GenerateContentConfig{
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		Temperature: genai.Ptr[float32](generationTemperature),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch earnings calendar: %w", err)
	}

	text, err := extractTextFromResponse(result)
	if err != nil {
		return nil, err
	}

	events, err := parseEvents(text, today)
	if err != nil {
		return nil, err
	}

	fetch := &models.EarningsFetch{
		Events:  events,
		Sources: extractSources(result),
	}

	c.logger.Info().
		Int("events", len(fetch.Events)).
		Int("sources", len(fetch.Sources)).
		Msg("Earnings calendar fetched")

	return fetch, nil
}

// buildCalendarPrompt creates the calendar extraction prompt. The JSON block
// instruction exists because response MIME type constraints cannot be
// combined with the search tool.
func buildCalendarPrompt(exchange, today string, windowDays int) string {
	return fmt.Sprintf(`Act as a financial data aggregator.
Search for the %s earnings calendar for the next %d days starting from today (%s).

I need a list of the most significant companies (large cap and popular tech stocks) reporting earnings.
Focus on companies listed on %s or major exchanges relevant to tech/growth.

Extract the following details for at least 20-30 upcoming events:
1. Ticker Symbol
2. Company Name
3. Report Date (Format: YYYY-MM-DD)
4. Report Time (Use exactly "BMO" for Before Market Open, "AMC" for After Market Close, or "TBD")

CRITICAL OUTPUT INSTRUCTIONS:
- Return the data ONLY as a valid JSON array inside a markdown code block.
- Do not include any conversational text before or after the code block.
- The JSON objects must have keys: "ticker", "companyName", "date", "time", "estimate".
- If "estimate" (EPS estimate) is not found, use "N/A".
- Ensure the dates are strictly within the next %d days.
- Sort by date ascending.`, exchange, windowDays, today, exchange, windowDays)
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	if text == "" {
		return "", fmt.Errorf("no content generated")
	}

	return text, nil
}

// extractSources collects grounding source URLs from the response metadata.
func extractSources(result *genai.GenerateContentResponse) []string {
	sources := []string{}
	if len(result.Candidates) == 0 || result.Candidates[0].GroundingMetadata == nil {
		return sources
	}
	for _, chunk := range result.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk.Web != nil && chunk.Web.URI != "" {
			sources = append(sources, chunk.Web.URI)
		}
	}
	return sources
}

var (
	jsonBlockRe  = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n```")
	fenceBlockRe = regexp.MustCompile("(?s)```(.*?)```")
)

// rawEvent is the provider's loosely-typed event shape before sanitization.
type rawEvent struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"companyName"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Estimate    string `json:"estimate"`
	MarketCap   string `json:"marketCap"`
}

// parseEvents extracts the JSON array from the model's markdown output and
// sanitizes each item. Malformed items are normalized with fallback defaults
// rather than rejecting the whole batch.
func parseEvents(text, fallbackDate string) ([]models.EarningsEvent, error) {
	match := jsonBlockRe.FindStringSubmatch(text)
	if match == nil {
		match = fenceBlockRe.FindStringSubmatch(text)
	}
	if match == nil {
		return nil, fmt.Errorf("failed to parse earnings data from AI response")
	}

	var raw []rawEvent
	if err := json.Unmarshal([]byte(match[1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse earnings data from AI response: %w", err)
	}

	events := make([]models.EarningsEvent, 0, len(raw))
	for _, item := range raw {
		events = append(events, sanitizeEvent(item, fallbackDate))
	}
	return events, nil
}

// sanitizeEvent normalizes one provider item with fallback defaults.
func sanitizeEvent(item rawEvent, fallbackDate string) models.EarningsEvent {
	event := models.EarningsEvent{
		Ticker:      item.Ticker,
		CompanyName: item.CompanyName,
		Date:        item.Date,
		Time:        models.ReportTime(item.Time),
		Estimate:    item.Estimate,
		MarketCap:   item.MarketCap,
	}

	if event.Ticker == "" {
		event.Ticker = "UNKNOWN"
	}
	if event.CompanyName == "" {
		event.CompanyName = "Unknown Company"
	}
	if _, err := time.Parse(models.DateLayout, event.Date); err != nil {
		event.Date = fallbackDate
	}
	if !event.Time.Valid() {
		event.Time = models.ReportTimeUnknown
	}
	if event.Estimate == "" {
		event.Estimate = "N/A"
	}

	return event
}

// Ensure Client implements EarningsClient
var _ interfaces.EarningsClient = (*Client)(nil)
