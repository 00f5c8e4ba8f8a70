package load

import (
	"context"
	"math/rand"

	"github.com/ledokol-inc/socialload/backend"
	"github.com/ledokol-inc/socialload/generator"
	"github.com/ledokol-inc/socialload/population"
	"github.com/ledokol-inc/socialload/prefix"
)

// User is the private state of one virtual user.
type User struct {
	Rand *rand.Rand
	Gen  *generator.Generator
}

func NewUser(seed int64) *User {
	gen := generator.New(seed)
	return &User{Rand: gen.Rand(), Gen: gen}
}

// Task is one unit of load. Execute is called repeatedly and concurrently by
// virtual users; implementations only read shared state.
type Task interface {
	Name() string
	Execute(ctx context.Context, user *User) bool
}

// SearchTask searches with the next prefix pair of a shared cyclic sequence.
type SearchTask struct {
	API    backend.API
	Cursor *prefix.Cursor
}

func (task *SearchTask) Name() string {
	return "search"
}

func (task *SearchTask) Execute(ctx context.Context, _ *User) bool {
	pair := task.Cursor.Next()
	return task.API.SearchUsers(ctx, pair.FirstName, pair.SecondName).OK()
}

// DialogWriteTask sends one truncated paragraph between two random users.
type DialogWriteTask struct {
	API        backend.API
	Population *population.Population
	Truncate   int
}

func (task *DialogWriteTask) Name() string {
	return "dialog-write"
}

func (task *DialogWriteTask) Execute(ctx context.Context, user *User) bool {
	pair := task.Population.SampleSessions(user.Rand, 2)
	if len(pair) < 2 {
		return false
	}
	text := generator.Truncate(user.Gen.NextParagraph(generator.PostSentences, true), task.Truncate)
	return task.API.SendMessage(ctx, pair[0].UserID, text, pair[1].Token).OK()
}

// DialogReadTask lists the dialog between two random users.
type DialogReadTask struct {
	API        backend.API
	Population *population.Population
}

func (task *DialogReadTask) Name() string {
	return "dialog-read"
}

func (task *DialogReadTask) Execute(ctx context.Context, user *User) bool {
	pair := task.Population.SampleSessions(user.Rand, 2)
	if len(pair) < 2 {
		return false
	}
	return task.API.ListDialog(ctx, pair[0].UserID, pair[1].Token).OK()
}

// FeedReadTask reads a page of the feed of a random user.
type FeedReadTask struct {
	API        backend.API
	Population *population.Population
	Offset     int
	Limit      int
}

func (task *FeedReadTask) Name() string {
	return "feed-read"
}

func (task *FeedReadTask) Execute(ctx context.Context, user *User) bool {
	sessions := task.Population.SampleSessions(user.Rand, 1)
	if len(sessions) == 0 {
		return false
	}
	return task.API.GetFeed(ctx, task.Offset, task.Limit, sessions[0].Token).OK()
}

// Registry resolves the task names used in test descriptions.
type Registry map[string]Task

func (registry Registry) Register(task Task) {
	registry[task.Name()] = task
}
