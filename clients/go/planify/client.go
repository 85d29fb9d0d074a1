// Package planify provides a client for the Planify conversation API.
package planify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a Planify API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new Planify client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// doRequest performs an HTTP request.
func (c *Client) doRequest(method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.Unmarshal(respBody, &errResp)
		return nil, fmt.Errorf("planify error %d: %s", resp.StatusCode, errResp.Error)
	}

	return respBody, nil
}

// Reference is a citation attached to a bot message.
type Reference struct {
	Content string `json:"content"`
	Page    int    `json:"page"`
	Score   string `json:"score"`
}

// Message represents a chat message.
type Message struct {
	ID         string      `json:"id"`
	Text       string      `json:"text"`
	IsBot      bool        `json:"isBot"`
	Timestamp  time.Time   `json:"timestamp"`
	References []Reference `json:"references,omitempty"`
}

// Conversation represents a conversation with its messages.
type Conversation struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConversationSummary represents conversation metadata.
type ConversationSummary struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	MessageCount int       `json:"messageCount"`
	Active       bool      `json:"active"`
}

// ConversationsResponse is the response from listing conversations.
type ConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
	Total         int                   `json:"total"`
}

// SubmitResponse is the response from submitting a chat message.
type SubmitResponse struct {
	Status       string `json:"status"`
	Conversation int    `json:"conversation"`
}

// StatusResponse reports whether a turn is in flight.
type StatusResponse struct {
	Loading bool `json:"loading"`
}

// HealthResponse is the response from the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Checks    map[string]interface{} `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

// CreateConversation creates a new, empty conversation.
func (c *Client) CreateConversation() (*Conversation, error) {
	respBody, err := c.doRequest("POST", "/conversations", nil)
	if err != nil {
		return nil, err
	}

	var resp Conversation
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListConversations lists all conversations, newest first.
func (c *Client) ListConversations() (*ConversationsResponse, error) {
	respBody, err := c.doRequest("GET", "/conversations", nil)
	if err != nil {
		return nil, err
	}

	var resp ConversationsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetConversation fetches one conversation with its messages.
func (c *Client) GetConversation(id int) (*Conversation, error) {
	respBody, err := c.doRequest("GET", fmt.Sprintf("/conversations/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var resp Conversation
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ActiveConversation fetches the active conversation. It returns nil
// without error when no conversation is active yet.
func (c *Client) ActiveConversation() (*Conversation, error) {
	respBody, err := c.doRequest("GET", "/conversations/active", nil)
	if err != nil {
		return nil, err
	}
	if len(respBody) == 0 {
		return nil, nil
	}

	var resp Conversation
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SelectConversation makes a conversation the active one.
func (c *Client) SelectConversation(id int) error {
	_, err := c.doRequest("POST", fmt.Sprintf("/conversations/%d/select", id), nil)
	return err
}

// Submit sends a chat message. The answer arrives asynchronously; poll
// Status until loading turns false, then re-fetch the conversation.
func (c *Client) Submit(text string) (*SubmitResponse, error) {
	body, _ := json.Marshal(map[string]string{"text": text})

	respBody, err := c.doRequest("POST", "/chat", body)
	if err != nil {
		return nil, err
	}

	var resp SubmitResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status reports whether a turn is in flight.
func (c *Client) Status() (*StatusResponse, error) {
	respBody, err := c.doRequest("GET", "/chat/status", nil)
	if err != nil {
		return nil, err
	}

	var resp StatusResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks server health.
func (c *Client) Health() (*HealthResponse, error) {
	respBody, err := c.doRequest("GET", "/health", nil)
	if err != nil {
		return nil, err
	}

	var resp HealthResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AskAndWait submits text and polls until the bot's reply for this turn
// has been appended, then returns the updated conversation.
func (c *Client) AskAndWait(text string, pollInterval time.Duration, timeout time.Duration) (*Conversation, error) {
	if pollInterval <= 0 {
		pollInterval = 250 * time.Millisecond
	}

	sub, err := c.Submit(text)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(timeout)
	for {
		status, err := c.Status()
		if err != nil {
			return nil, err
		}
		if !status.Loading {
			break
		}
		if timeout > 0 && time.Now().After(deadline) {
			return nil, fmt.Errorf("timed out waiting for answer")
		}
		time.Sleep(pollInterval)
	}

	return c.GetConversation(sub.Conversation)
}
