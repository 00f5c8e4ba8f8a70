package population

import (
	"math/rand"
	"sync"
)

// Session is an authenticated backend user.
type Session struct {
	UserID string `storm:"id"`
	Token  string
}

// Population maps issued user ids to session tokens. The bootstrapper fills
// it; synthesis and load tasks only read from it.
type Population struct {
	mu     sync.RWMutex
	ids    []string
	tokens map[string]string
	owners map[string]string
}

func New() *Population {
	return &Population{tokens: map[string]string{}, owners: map[string]string{}}
}

func FromSessions(sessions []Session) *Population {
	population := New()
	for _, session := range sessions {
		population.Add(session.UserID, session.Token)
	}
	return population
}

// Add records a session. It returns false if the user id or the token is
// already present.
func (population *Population) Add(userID string, token string) bool {
	population.mu.Lock()
	defer population.mu.Unlock()
	if _, exists := population.tokens[userID]; exists {
		return false
	}
	if _, exists := population.owners[token]; exists {
		return false
	}
	population.ids = append(population.ids, userID)
	population.tokens[userID] = token
	population.owners[token] = userID
	return true
}

func (population *Population) Token(userID string) (string, bool) {
	population.mu.RLock()
	defer population.mu.RUnlock()
	token, exists := population.tokens[userID]
	return token, exists
}

func (population *Population) Len() int {
	population.mu.RLock()
	defer population.mu.RUnlock()
	return len(population.ids)
}

// IDs returns user ids in bootstrap order.
func (population *Population) IDs() []string {
	population.mu.RLock()
	defer population.mu.RUnlock()
	return append([]string(nil), population.ids...)
}

func (population *Population) Sessions() []Session {
	population.mu.RLock()
	defer population.mu.RUnlock()
	sessions := make([]Session, 0, len(population.ids))
	for _, id := range population.ids {
		sessions = append(sessions, Session{UserID: id, Token: population.tokens[id]})
	}
	return sessions
}

// Sample draws k distinct user ids without replacement. k is capped at the
// population size.
func (population *Population) Sample(rnd *rand.Rand, k int) []string {
	population.mu.RLock()
	defer population.mu.RUnlock()
	n := len(population.ids)
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	// Floyd's algorithm, then a shuffle so the order is random as well.
	selected := make(map[int]struct{}, k)
	result := make([]string, 0, k)
	for j := n - k; j < n; j++ {
		t := rnd.Intn(j + 1)
		if _, taken := selected[t]; taken {
			t = j
		}
		selected[t] = struct{}{}
		result = append(result, population.ids[t])
	}
	rnd.Shuffle(len(result), func(a, b int) { result[a], result[b] = result[b], result[a] })
	return result
}

// SampleSessions is Sample returning sessions.
func (population *Population) SampleSessions(rnd *rand.Rand, k int) []Session {
	ids := population.Sample(rnd, k)
	population.mu.RLock()
	defer population.mu.RUnlock()
	sessions := make([]Session, 0, len(ids))
	for _, id := range ids {
		sessions = append(sessions, Session{UserID: id, Token: population.tokens[id]})
	}
	return sessions
}
