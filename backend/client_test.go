package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledokol-inc/socialload/backend"
	"github.com/ledokol-inc/socialload/backend/backendtest"
	"github.com/ledokol-inc/socialload/generator"
)

const password = "password"

var person = generator.PersonRecord{
	FirstName: "Иван",
	LastName:  "Петров",
	Birthdate: time.Date(1990, time.May, 3, 0, 0, 0, 0, time.UTC),
	City:      "г. Тула",
}

func TestClientFlow(t *testing.T) {
	for _, prefix := range []string{"", "/api/v2"} {
		t.Run("prefix="+prefix, func(t *testing.T) {
			server := backendtest.NewServer(prefix)
			defer server.Close()
			client := backend.NewClient(backend.Endpoints{Social: server.URL, Prefix: prefix})
			ctx := context.Background()

			first := client.Register(ctx, person, password)
			require.True(t, first.OK(), first.String())
			require.NotEmpty(t, first.UserID)
			assert.NotEmpty(t, first.RequestID)

			second := client.Register(ctx, generator.PersonRecord{FirstName: "Анна", LastName: "Петрова", Birthdate: person.Birthdate}, password)
			require.True(t, second.OK())

			login := client.Login(ctx, first.UserID, password)
			require.True(t, login.OK(), login.String())
			require.NotEmpty(t, login.Token)
			other := client.Login(ctx, second.UserID, password)
			require.True(t, other.OK())

			assert.True(t, client.AddFriend(ctx, second.UserID, login.Token).OK())
			assert.True(t, client.CreatePost(ctx, "Первый пост.", other.Token).OK())

			feed := client.GetFeed(ctx, 0, 10, login.Token)
			require.True(t, feed.OK(), feed.String())
			require.Len(t, feed.Posts, 1)
			assert.Equal(t, "Первый пост.", feed.Posts[0].Text)
			assert.Equal(t, second.UserID, feed.Posts[0].AuthorID)

			assert.True(t, client.SendMessage(ctx, second.UserID, "привет", login.Token).OK())
			assert.True(t, client.SendMessage(ctx, first.UserID, "здравствуй", other.Token).OK())
			dialog := client.ListDialog(ctx, second.UserID, login.Token)
			require.True(t, dialog.OK())
			assert.Len(t, dialog.Messages, 2)

			search := client.SearchUsers(ctx, "Ив", "Пет")
			require.True(t, search.OK())
			require.Len(t, search.Users, 1)
			assert.Equal(t, "Иван", search.Users[0].FirstName)

			assert.False(t, client.SearchUsers(ctx, "Яя", "Яя").OK())
		})
	}
}

func TestClientReportsStatusFailures(t *testing.T) {
	server := backendtest.NewServer("")
	defer server.Close()
	client := backend.NewClient(backend.Endpoints{Social: server.URL})
	ctx := context.Background()

	result := client.AddFriend(ctx, "user-0001", "bad-token")
	assert.False(t, result.OK())
	assert.NoError(t, result.Err)
	assert.Equal(t, http.StatusUnauthorized, result.Status)

	login := client.Login(ctx, "missing", password)
	assert.Equal(t, http.StatusNotFound, login.Status)
	assert.Empty(t, login.Token)
}

func TestClientReportsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := backend.NewClient(backend.Endpoints{Social: server.URL})

	result := client.Register(context.Background(), person, password)
	assert.False(t, result.OK())
	assert.Error(t, result.Err)
	assert.Zero(t, result.Status)
}

func TestClientMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "nope"}`))
	}))
	defer server.Close()
	client := backend.NewClient(backend.Endpoints{Social: server.URL})

	registered := client.Register(context.Background(), person, password)
	assert.False(t, registered.OK())
	assert.ErrorIs(t, registered.Err, backend.ErrMalformedResponse)
	assert.Equal(t, http.StatusOK, registered.Status)

	login := client.Login(context.Background(), "user", password)
	assert.ErrorIs(t, login.Err, backend.ErrMalformedResponse)
}

func TestClientSendsBearerOnlyWhenAuthenticated(t *testing.T) {
	headers := make(chan http.Header, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()
	client := backend.NewClient(backend.Endpoints{Social: server.URL, Dialog: server.URL})

	client.SearchUsers(context.Background(), "А", "Б")
	searchHeaders := <-headers
	assert.Empty(t, searchHeaders.Get("Authorization"))
	assert.NotEmpty(t, searchHeaders.Get("X-Request-ID"))

	client.ListDialog(context.Background(), "user", "secret")
	assert.Equal(t, "Bearer secret", (<-headers).Get("Authorization"))
}

func TestSubsystemEndpoints(t *testing.T) {
	social := backendtest.NewServer("")
	defer social.Close()
	paths := make(chan string, 1)
	dialogs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths <- r.URL.Path
	}))
	defer dialogs.Close()

	client := backend.NewClient(backend.Endpoints{Social: social.URL, Dialog: dialogs.URL, Prefix: "/api/v2"})
	assert.True(t, client.SendMessage(context.Background(), "user-0002", "текст", "token").OK())
	assert.Equal(t, "/api/v2/dialog/user-0002/send", <-paths)
	assert.Zero(t, social.Calls("send_message"))
}
