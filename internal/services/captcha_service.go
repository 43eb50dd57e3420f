package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// CaptchaService produces small arithmetic questions for the registration
// form. The answer is kept in the session by the caller.
type CaptchaService struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCaptchaService() *CaptchaService {
	return NewSeededCaptchaService(time.Now().UnixNano())
}

func NewSeededCaptchaService(seed int64) *CaptchaService {
	return &CaptchaService{rnd: rand.New(rand.NewSource(seed))}
}

// GenerateMathProblem returns a question such as "3 + 5" and its answer.
// Subtractions never go negative.
func (s *CaptchaService) GenerateMathProblem() (string, int) {
	s.mu.Lock()
	a, b, op := s.rnd.Intn(10), s.rnd.Intn(10), s.rnd.Intn(2)
	s.mu.Unlock()

	if op == 0 {
		return fmt.Sprintf("%d + %d", a, b), a + b
	}
	if a < b {
		a, b = b, a
	}
	return fmt.Sprintf("%d - %d", a, b), a - b
}
