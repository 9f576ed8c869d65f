package mocks

import (
	"sync"

	"github.com/VitaminP8/postboard/internal/subscription"
)

// MockSubscriptionManager запоминает опубликованные события для проверок в тестах
type MockSubscriptionManager struct {
	mu            sync.Mutex
	notifications map[uint][]subscription.Event // postID -> события
}

func NewMockSubscriptionManager() *MockSubscriptionManager {
	return &MockSubscriptionManager{
		notifications: make(map[uint][]subscription.Event),
	}
}

func (m *MockSubscriptionManager) Publish(postID uint, event subscription.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event.PostID = postID
	m.notifications[postID] = append(m.notifications[postID], event)
}

// GetNotificationsForPost возвращает все события конкретного поста
func (m *MockSubscriptionManager) GetNotificationsForPost(postID uint) []subscription.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]subscription.Event(nil), m.notifications[postID]...)
}

// Total - число событий по всем постам
func (m *MockSubscriptionManager) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, events := range m.notifications {
		total += len(events)
	}
	return total
}
