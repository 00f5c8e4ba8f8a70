package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ledokol-inc/socialload/generator"
)

// ErrMalformedResponse marks a successful status whose body lacks a field the
// caller depends on.
var ErrMalformedResponse = errors.New("malformed response body")

// API is the part of the social network backend the harness drives. Calls
// never fail with a Go error: transport and status failures are reported in
// the returned Result so the caller can log and continue.
type API interface {
	Register(ctx context.Context, person generator.PersonRecord, password string) RegisterResult
	Login(ctx context.Context, userID string, password string) LoginResult
	AddFriend(ctx context.Context, friendID string, token string) Result
	CreatePost(ctx context.Context, text string, token string) Result
	GetFeed(ctx context.Context, offset int, limit int, token string) FeedResult
	SendMessage(ctx context.Context, recipientID string, text string, token string) Result
	ListDialog(ctx context.Context, userID string, token string) DialogResult
	SearchUsers(ctx context.Context, firstName string, secondName string) SearchResult
}

type Result struct {
	Operation string
	Status    int
	Body      []byte
	RequestID string
	Err       error
}

func (result Result) OK() bool {
	return result.Err == nil && result.Status == http.StatusOK
}

func (result Result) String() string {
	if result.Err != nil {
		return fmt.Sprintf("%s: %v", result.Operation, result.Err)
	}
	return fmt.Sprintf("%s: status %d", result.Operation, result.Status)
}

type RegisterResult struct {
	Result
	UserID string
}

type LoginResult struct {
	Result
	Token string
}

type FeedResult struct {
	Result
	Posts []Post
}

type DialogResult struct {
	Result
	Messages []Message
}

type SearchResult struct {
	Result
	Users []User
}

type RegisterRequest struct {
	FirstName  string `json:"first_name"`
	SecondName string `json:"second_name"`
	Birthdate  string `json:"birthdate"`
	Biography  string `json:"biography"`
	City       string `json:"city"`
	Password   string `json:"password"`
}

type registerResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type TextRequest struct {
	Text string `json:"text"`
}

type Post struct {
	ID       string `json:"id"`
	AuthorID string `json:"author_user_id"`
	Text     string `json:"text"`
}

type Message struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

type User struct {
	ID         string `json:"id,omitempty"`
	FirstName  string `json:"first_name"`
	SecondName string `json:"second_name"`
	Birthdate  string `json:"birthdate"`
	Biography  string `json:"biography"`
	City       string `json:"city"`
}

func NewRegisterRequest(person generator.PersonRecord, password string) RegisterRequest {
	return RegisterRequest{
		FirstName:  person.FirstName,
		SecondName: person.LastName,
		Birthdate:  person.Birthdate.Format(generator.DateFormat),
		Biography:  person.Biography,
		City:       person.City,
		Password:   password,
	}
}
