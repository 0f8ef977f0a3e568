package exam

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu      sync.RWMutex
	users   map[string]User // by user_id
	exams   map[string]Exam // by exam_name
	results map[string]Result
	// insertion order, so listings are stable like a collection scan
	userOrder, examOrder, resultOrder []string
}

func NewInMemoryStore() Store {
	return &memoryStore{
		users:   map[string]User{},
		exams:   map[string]Exam{},
		results: map[string]Result{},
	}
}

func (m *memoryStore) CreateUser(_ context.Context, u User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.UserID]; ok {
		return User{}, ErrUserExists
	}
	for _, x := range m.users {
		if x.UserName == u.UserName {
			return User{}, ErrUserExists
		}
	}
	u.ID = uuid.NewString()
	u = cloneUser(u)
	m.users[u.UserID] = u
	m.userOrder = append(m.userOrder, u.UserID)
	return cloneUser(u), nil
}

func (m *memoryStore) GetUser(_ context.Context, userID string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (m *memoryStore) FindUser(_ context.Context, login string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[login]; ok {
		return cloneUser(u), nil
	}
	for _, id := range m.userOrder {
		if u := m.users[id]; u.UserName == login {
			return cloneUser(u), nil
		}
	}
	return User{}, ErrUserNotFound
}

func (m *memoryStore) ListUsers(_ context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]User, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		out = append(out, cloneUser(m.users[id]))
	}
	return out, nil
}

func (m *memoryStore) ReplaceSubmission(_ context.Context, userID string, s Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	s.Answers = append([]string{}, s.Answers...)
	u.ExamAnswers = replaceSubmission(u.ExamAnswers, s)
	m.users[userID] = u
	return nil
}

func (m *memoryStore) CreateExam(_ context.Context, e Exam) (Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exams[e.Name]; ok {
		return Exam{}, ErrExamExists
	}
	e.ID = uuid.NewString()
	m.exams[e.Name] = cloneExam(e)
	m.examOrder = append(m.examOrder, e.Name)
	return cloneExam(e), nil
}

func (m *memoryStore) GetExam(_ context.Context, name string) (Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.exams[name]
	if !ok {
		return Exam{}, ErrExamNotFound
	}
	return cloneExam(e), nil
}

func (m *memoryStore) ListExams(_ context.Context) ([]Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Exam, 0, len(m.examOrder))
	for _, n := range m.examOrder {
		out = append(out, cloneExam(m.exams[n]))
	}
	return out, nil
}

func (m *memoryStore) GetResult(_ context.Context, userID string) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.results[userID]
	if !ok {
		return Result{}, ErrResultNotFound
	}
	return cloneResult(r), nil
}

func (m *memoryStore) ListResults(_ context.Context) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Result, 0, len(m.resultOrder))
	for _, id := range m.resultOrder {
		out = append(out, cloneResult(m.results[id]))
	}
	return out, nil
}

func (m *memoryStore) PutResult(_ context.Context, r Result) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.results[r.UserID]
	if !ok {
		cur = Result{ID: uuid.NewString(), UserID: r.UserID}
		m.resultOrder = append(m.resultOrder, r.UserID)
	}
	cur.ExamResults = append([]Outcome{}, r.ExamResults...)
	m.results[r.UserID] = cur
	return cloneResult(cur), nil
}

func (m *memoryStore) ReplaceOutcome(_ context.Context, userID string, o Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.results[userID]
	if !ok {
		cur = Result{ID: uuid.NewString(), UserID: userID}
		m.resultOrder = append(m.resultOrder, userID)
	}
	cur.ExamResults = replaceOutcome(cur.ExamResults, o)
	m.results[userID] = cur
	return nil
}

func (m *memoryStore) Close(context.Context) error { return nil }

func cloneUser(u User) User {
	u.ExamsEnrolled = append([]string{}, u.ExamsEnrolled...)
	subs := make([]Submission, len(u.ExamAnswers))
	for i, s := range u.ExamAnswers {
		subs[i] = Submission{ExamName: s.ExamName, Answers: append([]string{}, s.Answers...)}
	}
	u.ExamAnswers = subs
	return u
}

func cloneExam(e Exam) Exam {
	qs := make([]Question, len(e.Questions))
	for i, q := range e.Questions {
		q.Options = append([]Option{}, q.Options...)
		qs[i] = q
	}
	e.Questions = qs
	return e
}

func cloneResult(r Result) Result {
	r.ExamResults = append([]Outcome{}, r.ExamResults...)
	return r
}
