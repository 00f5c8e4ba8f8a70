package backendtest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/ledokol-inc/socialload/backend"
	"github.com/ledokol-inc/socialload/generator"
)

// Call is one recorded invocation of the Fake API.
type Call struct {
	Operation string
	Target    string
	Text      string
	Token     string
}

// Fake is an in-process backend.API that records calls. Registrations get
// sequential ids; SearchResponder decides search statuses.
type Fake struct {
	FailRegister    map[int]bool
	FailLogin       map[int]bool
	SearchResponder func(firstName, secondName string) int
	// Tokens overrides the token issued for a user id.
	Tokens map[string]string

	mu        sync.Mutex
	calls     []Call
	registers int
	logins    int
}

func NewFake() *Fake {
	return &Fake{FailRegister: map[int]bool{}, FailLogin: map[int]bool{}, Tokens: map[string]string{}}
}

func (fake *Fake) record(call Call) {
	fake.calls = append(fake.calls, call)
}

func (fake *Fake) Calls(operation string) []Call {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	var result []Call
	for _, call := range fake.calls {
		if operation == "" || call.Operation == operation {
			result = append(result, call)
		}
	}
	return result
}

func (fake *Fake) Register(_ context.Context, person generator.PersonRecord, _ string) backend.RegisterResult {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.registers++
	fake.record(Call{Operation: "register", Text: person.FirstName + " " + person.LastName})
	if fake.FailRegister[fake.registers] {
		return backend.RegisterResult{Result: backend.Result{Operation: "register", Status: http.StatusInternalServerError}}
	}
	return backend.RegisterResult{
		Result: backend.Result{Operation: "register", Status: http.StatusOK},
		UserID: fmt.Sprintf("user-%d", fake.registers),
	}
}

func (fake *Fake) Login(_ context.Context, userID string, _ string) backend.LoginResult {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.logins++
	fake.record(Call{Operation: "login", Target: userID})
	if fake.FailLogin[fake.logins] {
		return backend.LoginResult{Result: backend.Result{Operation: "login", Status: http.StatusUnauthorized}}
	}
	token, exists := fake.Tokens[userID]
	if !exists {
		token = "token-" + userID
	}
	return backend.LoginResult{Result: backend.Result{Operation: "login", Status: http.StatusOK}, Token: token}
}

func (fake *Fake) ok(call Call) backend.Result {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.record(call)
	return backend.Result{Operation: call.Operation, Status: http.StatusOK}
}

func (fake *Fake) AddFriend(_ context.Context, friendID string, token string) backend.Result {
	return fake.ok(Call{Operation: "add_friend", Target: friendID, Token: token})
}

func (fake *Fake) CreatePost(_ context.Context, text string, token string) backend.Result {
	return fake.ok(Call{Operation: "create_post", Text: text, Token: token})
}

func (fake *Fake) GetFeed(_ context.Context, offset int, limit int, token string) backend.FeedResult {
	result := fake.ok(Call{Operation: "get_feed", Target: fmt.Sprintf("%d:%d", offset, limit), Token: token})
	return backend.FeedResult{Result: result}
}

func (fake *Fake) SendMessage(_ context.Context, recipientID string, text string, token string) backend.Result {
	return fake.ok(Call{Operation: "send_message", Target: recipientID, Text: text, Token: token})
}

func (fake *Fake) ListDialog(_ context.Context, userID string, token string) backend.DialogResult {
	result := fake.ok(Call{Operation: "list_dialog", Target: userID, Token: token})
	return backend.DialogResult{Result: result}
}

func (fake *Fake) SearchUsers(_ context.Context, firstName string, secondName string) backend.SearchResult {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	fake.record(Call{Operation: "search_users", Target: firstName + "," + secondName})
	status := http.StatusOK
	if fake.SearchResponder != nil {
		status = fake.SearchResponder(firstName, secondName)
	}
	return backend.SearchResult{Result: backend.Result{Operation: "search_users", Status: status}}
}

// UserOfToken reverses the default token scheme.
func UserOfToken(token string) string {
	return strings.TrimPrefix(token, "token-")
}
