package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

type fakeCompletionClient struct {
	reply string
	err   error
	calls int
	last  openai.ChatCompletionRequest
}

func (f *fakeCompletionClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.reply}},
		},
	}, nil
}

func testResponder(t *testing.T, client completionClient) *Responder {
	t.Helper()
	r, err := NewResponder(ResponderOpts{Client: client})
	if err != nil {
		t.Fatalf("NewResponder: %v", err)
	}
	return r
}

func TestNewResponder_RequiresKeyOrClient(t *testing.T) {
	if _, err := NewResponder(ResponderOpts{}); err == nil {
		t.Error("NewResponder accepted empty options")
	}
}

func TestRespond_KeywordMatch(t *testing.T) {
	client := &fakeCompletionClient{}
	r := testResponder(t, client)

	tests := []struct {
		message string
		want    string // substring of the canned reply
	}{
		{"Is this still AVAILABLE?", "What size are you interested in?"},
		{"do you have a king bed", "start at $275"},
		{"do you have a queen in stock", "start at $150"},
		{"need a full size", "start at $140"},
		{"twin for the kids room", "start at $120"},
		{"how does delivery work", "free"},
		{"can I book an appointment", "What time works best"},
		{"what's your location", "North Austin"},
		{"do you offer a payment plan", "NO CREDIT"},
		{"I need to cancel", "Would you like to reschedule?"},
		{"what's the best price", "Queens start at just $150"},
		{"which mattress brands do you carry", "wide selection"},
	}
	for _, tc := range tests {
		got, err := r.Respond(context.Background(), tc.message)
		if err != nil {
			t.Errorf("Respond(%q): %v", tc.message, err)
			continue
		}
		if !strings.Contains(got, tc.want) {
			t.Errorf("Respond(%q) = %q, want substring %q", tc.message, got, tc.want)
		}
	}
	if client.calls != 0 {
		t.Errorf("completion API called %d times for keyword matches", client.calls)
	}
}

func TestRespond_FirstRuleWins(t *testing.T) {
	r := testResponder(t, &fakeCompletionClient{})

	// "available" outranks "mattress"
	got, err := r.Respond(context.Background(), "is this mattress still available")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if !strings.Contains(got, "What size are you interested in?") {
		t.Errorf("got %q, want availability reply", got)
	}
}

func TestRespond_CompletionFallback(t *testing.T) {
	client := &fakeCompletionClient{reply: "We open at 10am on Sundays."}
	r := testResponder(t, client)

	got, err := r.Respond(context.Background(), "are you open on sundays")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got != "We open at 10am on Sundays." {
		t.Errorf("got %q", got)
	}
	if client.calls != 1 {
		t.Fatalf("completion API called %d times, want 1", client.calls)
	}

	msgs := client.last.Messages
	if len(msgs) != 2 || msgs[0].Role != openai.ChatMessageRoleSystem || msgs[1].Content != "are you open on sundays" {
		t.Errorf("completion messages = %+v", msgs)
	}
}

func TestRespond_CompletionError(t *testing.T) {
	client := &fakeCompletionClient{err: errors.New("rate limited")}
	r := testResponder(t, client)

	if _, err := r.Respond(context.Background(), "are you open on sundays"); err == nil {
		t.Error("Respond succeeded despite completion error")
	}
}
