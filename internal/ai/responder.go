// Package ai generates reply suggestions for inbound customer messages.
// Common questions are answered from a canned response board keyed by
// message keywords; everything else falls through to a chat completion.
package ai

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// systemPrompt frames the completion fallback.
const systemPrompt = "You are a helpful AI assistant for a mattress store."

// fallbackReply is used when a keyword matches but its board entry is gone.
const fallbackReply = "I'm happy to assist! Could you provide more details?"

// responseBoard maps scenario names to canned replies.
var responseBoard = map[string]string{
	"availability":    "Hi! We still have discounted mattresses with free same-day delivery. What size are you interested in?",
	"king":            "Hi! Yes, we have Kings ready for same-day delivery. They start at $275 and go up from there. When do you need the King by?",
	"queen":           "Hi! Yes, we have Queens ready for same-day delivery. They start at $150 and go up from there. When do you need the Queen by?",
	"full":            "Hi! Yes, we have Full-size mattresses ready for same-day delivery. They start at $140 and go up from there. When do you need the Full-size by?",
	"twin":            "Hi! Yes, we have Twin mattresses ready for same-day delivery. They start at $120 and go up from there. When do you need the Twin by?",
	"delivery":        "We offer local delivery, and right now it's free! Normally, when there's a charge, it's very affordable. When would you like it delivered?",
	"appointment":     "Hi [Customer's Name], this is James from Mattress By Appointment. I have openings today and tomorrow with free same-day delivery. What time works best for you?",
	"location":        "What we do is set appointments to meet with people and show them my current inventory, located in North Austin. Are you familiar with the intersection of N Lamar and 183?",
	"payment-plan":    "To qualify for our payment plan, NO CREDIT is needed, just a valid ID and a traditional bank account with regular activity. Can I schedule a time for you to apply and find your mattress?",
	"appt-confirm":    "Hi [Customer's Name], I'm looking forward to helping you find your new mattress at our appointment on [Date/Time].\n\nOur address is: 7801 N. Lamar Blvd, Austin, TX 78752.\n\nSee you soon!",
	"cancel":          "Thank you for letting me know! Would you like to reschedule?",
	"cheapest-queen":  "Queens start at just $150 and go up from there. We sell them fast, when did you need one by?",
	"brand-selection": "We have a wide selection of new mattresses, ranging from Twin to King, with various price points starting at $120. Would you like to schedule a time to see them?",
}

// keywordRule binds a substring of the lowercased inbound message to a
// board entry. Order matters: the first match wins.
type keywordRule struct {
	keyword string
	board   string
}

var keywordRules = []keywordRule{
	{"available", "availability"},
	{"king", "king"},
	{"queen", "queen"},
	{"full", "full"},
	{"twin", "twin"},
	{"delivery", "delivery"},
	{"appointment", "appointment"},
	{"location", "location"},
	{"payment", "payment-plan"},
	{"schedule", "appt-confirm"},
	{"cancel", "cancel"},
	{"reschedule", "cancel"},
	{"price", "cheapest-queen"},
	{"mattress", "brand-selection"},
}

// completionClient abstracts the OpenAI chat API, enabling test mocks.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Responder answers inbound customer messages, preferring the canned
// board and falling back to a chat completion.
type Responder struct {
	client      completionClient
	model       string
	temperature float32
}

// ResponderOpts holds parameters for creating a Responder.
type ResponderOpts struct {
	APIKey      string
	Model       string  // defaults to openai.GPT4
	Temperature float32 // defaults to 0.7

	// Client overrides the OpenAI client; tests inject fakes here.
	Client completionClient
}

// NewResponder creates a Responder. Either APIKey or Client must be set.
func NewResponder(opts ResponderOpts) (*Responder, error) {
	client := opts.Client
	if client == nil {
		if opts.APIKey == "" {
			return nil, fmt.Errorf("ai: api key is required")
		}
		client = openai.NewClient(opts.APIKey)
	}
	model := opts.Model
	if model == "" {
		model = openai.GPT4
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = 0.7
	}
	return &Responder{client: client, model: model, temperature: temperature}, nil
}

// Respond produces a reply for one inbound message. Keyword matching is
// case-insensitive and never calls the completion API; only unmatched
// messages go to the model.
func (r *Responder) Respond(ctx context.Context, userMessage string) (string, error) {
	lowered := strings.ToLower(userMessage)
	for _, rule := range keywordRules {
		if strings.Contains(lowered, rule.keyword) {
			if reply, ok := responseBoard[rule.board]; ok {
				return reply, nil
			}
			return fallbackReply, nil
		}
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: r.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ai: chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
