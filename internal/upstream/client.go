// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package upstream wraps the OpenAI Responses API for background deep
// research jobs: submit with web search enabled, poll until terminal,
// and enrich a raw query into researcher instructions.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

var (
	// ErrTimeout is returned by Wait when the job does not reach a
	// terminal status within the ceiling.
	ErrTimeout = errors.New("research job timed out")

	// ErrUpstreamFailed is returned by Wait when the job lands in
	// status failed.
	ErrUpstreamFailed = errors.New("research job failed upstream")
)

// Client talks to the OpenAI Responses API.
type Client struct {
	api         openai.Client
	enrichModel string
}

// NewClient builds a client from an API key. The enrichModel is the
// fast, cheap model used by Enrich; the deep research models are chosen
// per request.
func NewClient(apiKey, enrichModel string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("upstream: API key is required")
	}
	return &Client{
		api:         openai.NewClient(option.WithAPIKey(apiKey)),
		enrichModel: enrichModel,
	}, nil
}

// Submit starts a background research job with web search enabled and
// returns the upstream response id.
func (c *Client) Submit(ctx context.Context, model, input string, maxToolCalls int) (string, error) {
	params := responses.ResponseNewParams{
		Model:      model,
		Input:      responses.ResponseNewParamsInputUnion{OfString: openai.String(input)},
		Background: openai.Bool(true),
		Tools: []responses.ToolUnionParam{
			{OfWebSearchPreview: &responses.WebSearchToolParam{Type: "web_search_preview"}},
		},
	}
	if maxToolCalls > 0 {
		params.MaxToolCalls = openai.Int(int64(maxToolCalls))
	}

	resp, err := c.api.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("submit research job: %w", err)
	}
	return resp.ID, nil
}

// PollResult is one observation of a background job.
type PollResult struct {
	Status     JobStatus
	OutputText string
}

// JobStatus is the coarse state of an upstream job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Poll fetches the current state of a background job.
func (c *Client) Poll(ctx context.Context, id string) (PollResult, error) {
	resp, err := c.api.Responses.Get(ctx, id, responses.ResponseGetParams{})
	if err != nil {
		return PollResult{}, fmt.Errorf("poll research job %s: %w", id, err)
	}

	switch resp.Status {
	case responses.ResponseStatusCompleted:
		return PollResult{Status: JobCompleted, OutputText: resp.OutputText()}, nil
	case responses.ResponseStatusFailed:
		return PollResult{Status: JobFailed}, nil
	default:
		return PollResult{Status: JobPending}, nil
	}
}

// Wait polls the job every interval until it completes, fails, or the
// ceiling elapses. Transient poll errors are tolerated; the job keeps
// running upstream regardless.
func (c *Client) Wait(ctx context.Context, id string, interval, ceiling time.Duration) (string, error) {
	return wait(ctx, c.Poll, id, interval, ceiling)
}

func wait(ctx context.Context, poll func(context.Context, string) (PollResult, error), id string, interval, ceiling time.Duration) (string, error) {
	deadline := time.Now().Add(ceiling)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res, err := poll(ctx, id)
		if err == nil {
			switch res.Status {
			case JobCompleted:
				return res.OutputText, nil
			case JobFailed:
				return "", fmt.Errorf("job %s: %w", id, ErrUpstreamFailed)
			}
		}

		if time.Now().After(deadline) {
			return "", fmt.Errorf("job %s did not complete within %s: %w", id, ceiling, ErrTimeout)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}
