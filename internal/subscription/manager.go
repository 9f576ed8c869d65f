package subscription

import (
	"sync"
	"time"
)

// Типы событий ветки обсуждения
const (
	PostUpdated    = "post.updated"
	PostDeleted    = "post.deleted"
	CommentCreated = "comment.created"
	CommentUpdated = "comment.updated"
	CommentDeleted = "comment.deleted"
	ReplyCreated   = "reply.created"
	ReplyUpdated   = "reply.updated"
	ReplyDeleted   = "reply.deleted"
)

// publishTimeout - сколько ждать медленного подписчика, прежде чем пропустить событие
const publishTimeout = 100 * time.Millisecond

// Event - изменение в ветке одного поста
type Event struct {
	Type      string      `json:"type"`
	PostID    uint        `json:"postId"`
	CommentID uint        `json:"commentId,omitempty"`
	ReplyID   uint        `json:"replyId,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Publisher - то, что нужно сервисам (сервисы не подписываются)
type Publisher interface {
	Publish(postID uint, event Event)
}

type Manager interface {
	Publisher
	Subscribe(postID uint) (<-chan Event, func())
}

// subscriber - канал одного клиента. done закрывается при отписке раньше ch,
// чтобы отпустить Publish, который ждет медленного читателя.
type subscriber struct {
	ch   chan Event
	done chan struct{}

	mu     sync.RWMutex // отправка под RLock, закрытие ch под Lock
	closed bool
}

func (s *subscriber) send(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}

	timer := time.NewTimer(publishTimeout)
	defer timer.Stop()

	select {
	case s.ch <- event:
	case <-s.done:
	case <-timer.C:
		// подписчик не успевает читать - событие для него теряется
	}
}

func (s *subscriber) close() {
	close(s.done)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	close(s.ch)
}

type SubscriptionManager struct {
	mu   sync.Mutex
	subs map[uint][]*subscriber // postID -> подписчики
}

func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subs: make(map[uint][]*subscriber),
	}
}

func (m *SubscriptionManager) Subscribe(postID uint) (<-chan Event, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := &subscriber{
		ch:   make(chan Event, 8),
		done: make(chan struct{}),
	}

	m.subs[postID] = append(m.subs[postID], sub)

	// функция для отписки (повторный вызов ничего не делает)
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			subscribers := m.subs[postID]
			for i, s := range subscribers {
				if s == sub {
					m.subs[postID] = append(subscribers[:i:i], subscribers[i+1:]...)
					break
				}
			}
			if len(m.subs[postID]) == 0 {
				delete(m.subs, postID)
			}
			m.mu.Unlock()

			sub.close()
		})
	}

	return sub.ch, cancel
}

// Publish рассылает событие без m.mu: медленный подписчик не держит
// ни других издателей, ни отписку.
func (m *SubscriptionManager) Publish(postID uint, event Event) {
	m.mu.Lock()
	subscribers := make([]*subscriber, len(m.subs[postID]))
	copy(subscribers, m.subs[postID])
	m.mu.Unlock()

	event.PostID = postID
	for _, sub := range subscribers {
		sub.send(event)
	}
}

// Subscribers - количество подписчиков поста
func (m *SubscriptionManager) Subscribers(postID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[postID])
}
