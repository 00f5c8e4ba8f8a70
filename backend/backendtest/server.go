// Package backendtest provides an in-memory social network backend serving
// the HTTP surface consumed by the harness.
package backendtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/ledokol-inc/socialload/backend"
)

type message struct {
	from string
	to   string
	text string
}

type Server struct {
	*httptest.Server

	// FailRegister and FailLogin make the n-th call (1-based) of the
	// operation answer 500.
	FailRegister map[int]bool
	FailLogin    map[int]bool

	mu        sync.Mutex
	users     map[string]backend.User
	passwords map[string]string
	order     []string
	tokens    map[string]string
	friends   map[string][]string
	posts     map[string][]string
	messages  []message
	calls     map[string]int
	nextID    int
}

func NewServer(prefix string) *Server {
	gin.SetMode(gin.TestMode)
	server := &Server{
		FailRegister: map[int]bool{},
		FailLogin:    map[int]bool{},
		users:        map[string]backend.User{},
		passwords:    map[string]string{},
		tokens:       map[string]string{},
		friends:      map[string][]string{},
		posts:        map[string][]string{},
		calls:        map[string]int{},
	}

	router := gin.New()
	api := router.Group(prefix)
	api.POST("/user/register", server.register)
	api.POST("/login", server.login)
	api.GET("/user/search", server.search)
	authorized := api.Group("", server.authorize)
	authorized.PUT("/friend/add/:user_id", server.addFriend)
	authorized.POST("/post/create", server.createPost)
	authorized.GET("/post/feed", server.feed)
	authorized.POST("/dialog/:user_id/send", server.send)
	authorized.GET("/dialog/:user_id/list", server.list)

	server.Server = httptest.NewServer(router)
	return server
}

func (server *Server) Calls(operation string) int {
	server.mu.Lock()
	defer server.mu.Unlock()
	return server.calls[operation]
}

func (server *Server) UserCount() int {
	server.mu.Lock()
	defer server.mu.Unlock()
	return len(server.users)
}

func (server *Server) Friends(userID string) []string {
	server.mu.Lock()
	defer server.mu.Unlock()
	return append([]string(nil), server.friends[userID]...)
}

func (server *Server) PostCount(userID string) int {
	server.mu.Lock()
	defer server.mu.Unlock()
	return len(server.posts[userID])
}

func (server *Server) MessageCount() int {
	server.mu.Lock()
	defer server.mu.Unlock()
	return len(server.messages)
}

func (server *Server) count(operation string) int {
	server.calls[operation]++
	return server.calls[operation]
}

func (server *Server) register(c *gin.Context) {
	server.mu.Lock()
	defer server.mu.Unlock()
	n := server.count("register")
	var body backend.RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	if server.FailRegister[n] {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	server.nextID++
	id := fmt.Sprintf("user-%04d", server.nextID)
	server.users[id] = backend.User{
		ID:         id,
		FirstName:  body.FirstName,
		SecondName: body.SecondName,
		Birthdate:  body.Birthdate,
		Biography:  body.Biography,
		City:       body.City,
	}
	server.passwords[id] = body.Password
	server.order = append(server.order, id)
	c.JSON(http.StatusOK, gin.H{"user_id": id})
}

func (server *Server) login(c *gin.Context) {
	server.mu.Lock()
	defer server.mu.Unlock()
	n := server.count("login")
	var body backend.LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	password, exists := server.passwords[body.ID]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}
	if password != body.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	if server.FailLogin[n] {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	token := fmt.Sprintf("token-%s-%d", body.ID, n)
	server.tokens[token] = body.ID
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (server *Server) authorize(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	server.mu.Lock()
	userID, exists := server.tokens[token]
	server.mu.Unlock()
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	c.Set("user_id", userID)
	c.Next()
}

func (server *Server) addFriend(c *gin.Context) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.count("add_friend")
	userID := c.GetString("user_id")
	friendID := c.Param("user_id")
	if friendID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}
	if _, exists := server.users[friendID]; !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}
	server.friends[userID] = append(server.friends[userID], friendID)
	c.Status(http.StatusOK)
}

func (server *Server) createPost(c *gin.Context) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.count("create_post")
	var body backend.TextRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	userID := c.GetString("user_id")
	server.posts[userID] = append(server.posts[userID], body.Text)
	c.Status(http.StatusOK)
}

func (server *Server) feed(c *gin.Context) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.count("get_feed")
	userID := c.GetString("user_id")
	var offset, limit int
	if _, err := fmt.Sscan(c.DefaultQuery("offset", "0"), &offset); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}
	if _, err := fmt.Sscan(c.DefaultQuery("limit", "10"), &limit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}
	posts := make([]backend.Post, 0)
	for _, friendID := range server.friends[userID] {
		for i, text := range server.posts[friendID] {
			posts = append(posts, backend.Post{ID: fmt.Sprintf("%s-%d", friendID, i), AuthorID: friendID, Text: text})
		}
	}
	if offset > len(posts) {
		offset = len(posts)
	}
	posts = posts[offset:]
	if limit < len(posts) {
		posts = posts[:limit]
	}
	c.JSON(http.StatusOK, posts)
}

func (server *Server) send(c *gin.Context) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.count("send_message")
	var body backend.TextRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	to := c.Param("user_id")
	if _, exists := server.users[to]; !exists {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}
	server.messages = append(server.messages, message{from: c.GetString("user_id"), to: to, text: body.Text})
	c.Status(http.StatusOK)
}

func (server *Server) list(c *gin.Context) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.count("list_dialog")
	userID := c.GetString("user_id")
	other := c.Param("user_id")
	result := make([]backend.Message, 0)
	for _, m := range server.messages {
		if (m.from == userID && m.to == other) || (m.from == other && m.to == userID) {
			result = append(result, backend.Message{From: m.from, To: m.to, Text: m.text})
		}
	}
	c.JSON(http.StatusOK, result)
}

// search answers 404 when nothing matches.
func (server *Server) search(c *gin.Context) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.count("search_users")
	firstName := c.Query("first_name")
	secondName := c.Query("second_name")
	result := make([]backend.User, 0)
	for _, id := range server.order {
		user := server.users[id]
		if strings.HasPrefix(user.FirstName, firstName) && strings.HasPrefix(user.SecondName, secondName) {
			result = append(result, user)
		}
	}
	if len(result) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
		return
	}
	c.JSON(http.StatusOK, result)
}
