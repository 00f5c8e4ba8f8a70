package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ledokol-inc/socialload/generator"
)

const requestIDHeader = "X-Request-ID"

// Endpoints are the base URLs of the backend subsystems. Prefix is the API
// version path ("/api/v2") and may be empty.
type Endpoints struct {
	Social string `mapstructure:"social-url"`
	Dialog string `mapstructure:"dialog-url"`
	Search string `mapstructure:"search-url"`
	Prefix string `mapstructure:"api-prefix"`
}

func (endpoints Endpoints) withDefaults() Endpoints {
	if endpoints.Dialog == "" {
		endpoints.Dialog = endpoints.Social
	}
	if endpoints.Search == "" {
		endpoints.Search = endpoints.Social
	}
	return endpoints
}

func (endpoints Endpoints) url(base string, path string) string {
	return strings.TrimRight(base, "/") + endpoints.Prefix + path
}

type Client struct {
	http      *resty.Client
	endpoints Endpoints
}

func NewClient(endpoints Endpoints) *Client {
	return NewClientWith(resty.New(), endpoints)
}

func NewClientWith(httpClient *resty.Client, endpoints Endpoints) *Client {
	httpClient.SetRetryCount(0)
	return &Client{http: httpClient, endpoints: endpoints.withDefaults()}
}

func (client *Client) Register(ctx context.Context, person generator.PersonRecord, password string) RegisterResult {
	result := client.do(ctx, "register", http.MethodPost,
		client.endpoints.url(client.endpoints.Social, "/user/register"), "", nil,
		NewRegisterRequest(person, password))
	registered := RegisterResult{Result: result}
	if !result.OK() {
		return registered
	}
	var body registerResponse
	if err := decode(result.Body, &body); err != nil || body.UserID == "" {
		registered.Err = malformed(err, "user_id")
		logFailure(registered.Result)
		return registered
	}
	registered.UserID = body.UserID
	return registered
}

func (client *Client) Login(ctx context.Context, userID string, password string) LoginResult {
	result := client.do(ctx, "login", http.MethodPost,
		client.endpoints.url(client.endpoints.Social, "/login"), "", nil,
		LoginRequest{ID: userID, Password: password})
	login := LoginResult{Result: result}
	if !result.OK() {
		return login
	}
	var body loginResponse
	if err := decode(result.Body, &body); err != nil || body.Token == "" {
		login.Err = malformed(err, "token")
		logFailure(login.Result)
		return login
	}
	login.Token = body.Token
	return login
}

func (client *Client) AddFriend(ctx context.Context, friendID string, token string) Result {
	return client.do(ctx, "add_friend", http.MethodPut,
		client.endpoints.url(client.endpoints.Social, "/friend/add/"+url.PathEscape(friendID)), token, nil, nil)
}

func (client *Client) CreatePost(ctx context.Context, text string, token string) Result {
	return client.do(ctx, "create_post", http.MethodPost,
		client.endpoints.url(client.endpoints.Social, "/post/create"), token, nil, TextRequest{Text: text})
}

func (client *Client) GetFeed(ctx context.Context, offset int, limit int, token string) FeedResult {
	query := map[string]string{"offset": strconv.Itoa(offset), "limit": strconv.Itoa(limit)}
	result := client.do(ctx, "get_feed", http.MethodGet,
		client.endpoints.url(client.endpoints.Social, "/post/feed"), token, query, nil)
	feed := FeedResult{Result: result}
	if result.OK() {
		if err := decodeList(result.Body, &feed.Posts); err != nil {
			feed.Err = malformed(err, "posts")
			logFailure(feed.Result)
		}
	}
	return feed
}

func (client *Client) SendMessage(ctx context.Context, recipientID string, text string, token string) Result {
	return client.do(ctx, "send_message", http.MethodPost,
		client.endpoints.url(client.endpoints.Dialog, "/dialog/"+url.PathEscape(recipientID)+"/send"), token, nil,
		TextRequest{Text: text})
}

func (client *Client) ListDialog(ctx context.Context, userID string, token string) DialogResult {
	result := client.do(ctx, "list_dialog", http.MethodGet,
		client.endpoints.url(client.endpoints.Dialog, "/dialog/"+url.PathEscape(userID)+"/list"), token, nil, nil)
	dialog := DialogResult{Result: result}
	if result.OK() {
		if err := decodeList(result.Body, &dialog.Messages); err != nil {
			dialog.Err = malformed(err, "messages")
			logFailure(dialog.Result)
		}
	}
	return dialog
}

func (client *Client) SearchUsers(ctx context.Context, firstName string, secondName string) SearchResult {
	query := map[string]string{"first_name": firstName, "second_name": secondName}
	result := client.do(ctx, "search_users", http.MethodGet,
		client.endpoints.url(client.endpoints.Search, "/user/search"), "", query, nil)
	search := SearchResult{Result: result}
	if result.OK() {
		if err := decodeList(result.Body, &search.Users); err != nil {
			search.Err = malformed(err, "users")
			logFailure(search.Result)
		}
	}
	return search
}

func (client *Client) do(ctx context.Context, operation string, method string, target string, token string,
	query map[string]string, body interface{}) Result {

	requestID := uuid.NewString()
	request := client.http.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, requestID)
	if token != "" {
		request.SetAuthToken(token)
	}
	if query != nil {
		request.SetQueryParams(query)
	}
	if body != nil {
		request.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	log.Debug().Str("operation", operation).Str("method", method).Str("url", target).
		Str("requestId", requestID).Msg("Sending request")

	started := time.Now()
	response, err := request.Execute(method, target)
	result := Result{Operation: operation, RequestID: requestID}
	if err != nil {
		result.Err = err
		observeRequest(result, time.Since(started))
		logFailure(result)
		return result
	}
	result.Status = response.StatusCode()
	result.Body = response.Body()
	observeRequest(result, time.Since(started))
	if !result.OK() {
		logFailure(result)
	}
	return result
}

// logFailure logs client errors (4xx) at warn level, everything else at error.
func logFailure(result Result) {
	event := log.Error()
	if result.Err == nil && result.Status >= 400 && result.Status < 500 {
		event = log.Warn()
	}
	event = event.Str("operation", result.Operation).Str("requestId", result.RequestID)
	if result.Err != nil {
		event = event.Err(result.Err)
	}
	if result.Status != 0 {
		event = event.Int("status", result.Status).Bytes("body", result.Body)
	}
	event.Msg("Backend call failed")
}

func decode(body []byte, target interface{}) error {
	return json.Unmarshal(body, target)
}

// decodeList accepts an empty body or JSON null as an empty list.
func decodeList(body []byte, target interface{}) error {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return json.Unmarshal([]byte(trimmed), target)
}

func malformed(err error, field string) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, field, err)
	}
	return fmt.Errorf("%w: missing %s", ErrMalformedResponse, field)
}
