package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/nibzard/todoctl/internal/todo"
)

const (
	chatPath        = "/api/chat"
	insightsPath    = "/api/productivity-insights"
	suggestionsPath = "/api/ai-suggestions"
)

// SendChat relays a free-text message. The backend may mutate tasks while
// interpreting it; ChatReply.ActionPerformed says so.
func (c *Client) SendChat(ctx context.Context, message string) (ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return ChatReply{}, &todo.ValidationError{Field: "message", Err: errEmpty}
	}

	var reply ChatReply
	err := c.call(ctx, "send_chat", http.MethodPost, chatPath, chatRequest{Message: message}, func(status int, data []byte) error {
		var resp chatResponse
		if err := decode("send_chat", SchemaChat, status, data, &resp); err != nil {
			return err
		}
		if err := checkEnvelope("send_chat", status, resp.envelope); err != nil {
			return err
		}
		reply = ChatReply{
			Response:        resp.Response,
			ActionPerformed: resp.ActionPerformed,
			ActionType:      resp.ActionType,
		}
		return nil
	})
	return reply, err
}

// FetchInsights returns the backend's productivity analysis.
func (c *Client) FetchInsights(ctx context.Context) (string, error) {
	var insights string
	err := c.call(ctx, "fetch_insights", http.MethodGet, insightsPath, nil, func(status int, data []byte) error {
		var resp insightsResponse
		if err := decode("fetch_insights", SchemaInsights, status, data, &resp); err != nil {
			return err
		}
		if err := checkEnvelope("fetch_insights", status, resp.envelope); err != nil {
			return err
		}
		insights = resp.Insights
		return nil
	})
	return insights, err
}

// FetchSuggestions asks for task ideas for a free-text goal. The result
// keeps the backend's order.
func (c *Client) FetchSuggestions(ctx context.Context, input string) ([]Suggestion, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &todo.ValidationError{Field: "input", Err: errEmpty}
	}

	var suggestions []Suggestion
	err := c.call(ctx, "fetch_suggestions", http.MethodPost, suggestionsPath, suggestionsRequest{Input: input}, func(status int, data []byte) error {
		var resp suggestionsResponse
		if err := decode("fetch_suggestions", SchemaSuggestions, status, data, &resp); err != nil {
			return err
		}
		if err := checkEnvelope("fetch_suggestions", status, resp.envelope); err != nil {
			return err
		}
		suggestions = resp.Suggestions
		return nil
	})
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}
