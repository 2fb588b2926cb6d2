// Package ai generates plain-language medication narratives and adherence
// summaries through an OpenAI-compatible chat API. The client is optional;
// callers treat a nil client as the feature being disabled.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/dhruvj27/rxscan/internal/adherence"
	"github.com/dhruvj27/rxscan/internal/models"
	"github.com/dhruvj27/rxscan/internal/rrule"
)

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *Client) SetModel(model string) {
	c.model = model
}

const narrativeSystemPrompt = `You are a medical professional explaining a prescribed medication to a patient.
Write a short, clear narrative in conversational English suitable for being read aloud.

Rules:
1. Open with the medication name and what taking it looks like day to day.
2. Cover the dosage, the schedule, and any intake instructions you are given.
3. Keep it under 120 words, no markdown, no bullet points, natural speech flow.
4. Do not invent medical facts that are not in the input; if the purpose of the
   medication is not stated, do not guess one.`

// MedicationNarrative produces a spoken-style explanation of one reminder's
// medication and schedule.
func (c *Client) MedicationNarrative(ctx context.Context, rem models.Reminder) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Medication: %s\n", rem.Medicine.Name)
	if rem.Medicine.Dosage != "" {
		fmt.Fprintf(&sb, "Dosage: %s\n", rem.Medicine.Dosage)
	}
	if rem.Medicine.Instructions != "" {
		fmt.Fprintf(&sb, "Instructions: %s\n", rem.Medicine.Instructions)
	}
	if rem.Doctor != "" {
		fmt.Fprintf(&sb, "Prescribed by: %s\n", rem.Doctor)
	}
	fmt.Fprintf(&sb, "Schedule: %s, from %s to %s\n", rrule.Describe(rem), rem.StartDate, rem.EndDate)

	return c.complete(ctx, narrativeSystemPrompt, sb.String())
}

const summarySystemPrompt = `You are a friendly medication-adherence coach. Given today's intake counts and
the weekly adherence rate, write a short encouraging status message (2-3
sentences, plain text, no markdown). Mention the adherence percentage. If doses
were missed, gently suggest catching up tomorrow; never scold.`

// AdherenceSummary turns today's counts and the weekly stats into a short
// coaching message for the daily summary.
func (c *Client) AdherenceSummary(ctx context.Context, counts adherence.DayCounts, weekly adherence.Stats) (string, error) {
	input := fmt.Sprintf(
		"Today: %d scheduled, %d taken, %d skipped, %d missed, %d still pending.\nLast 7 days: %d of %d expected doses taken (%d%% adherence).",
		counts.Total, counts.Taken, counts.Skipped, counts.Missed, counts.Pending,
		weekly.Taken, weekly.Total, weekly.AdherenceRate,
	)
	return c.complete(ctx, summarySystemPrompt, input)
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("ai: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("ai: empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
