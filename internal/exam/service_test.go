package exam

import (
	"context"
	"errors"
	"testing"
)

func pythonBasics() Exam {
	return Exam{
		Name: "Python Basics",
		Questions: []Question{
			{
				QuestionID:          "q1",
				QuestionDescription: "What is the correct way to create a list in Python?",
				Options:             []Option{{"a", "list = []"}, {"b", "list = {}"}, {"c", "list = ()"}},
				CorrectOption:       "a",
			},
			{
				QuestionID:          "q2",
				QuestionDescription: "Which keyword is used to define a function in Python?",
				Options:             []Option{{"a", "function"}, {"b", "def"}, {"c", "func"}},
				CorrectOption:       "b",
			},
		},
	}
}

func newTestService(t *testing.T) (*Service, Store) {
	t.Helper()
	ctx := context.Background()
	store := NewInMemoryStore()
	svc := NewService(store)
	if _, err := svc.CreateExam(ctx, pythonBasics()); err != nil {
		t.Fatalf("create exam: %v", err)
	}
	if _, err := svc.RegisterUser(ctx, NewUser{
		UserID: "u1", UserName: "Student One", Password: "h", ExamsEnrolled: []string{"Python Basics"},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	return svc, store
}

func TestSubmitAndScoreScenario(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	if err := svc.Submit(ctx, "u1", "Python Basics", []string{"a", "b"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	calc, err := svc.CalculateResult(ctx, "u1", "Python Basics")
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	want := Calculation{Score: "2/2", Percentage: "100.0%", Grade: "A+ - Excellent", Result: "100.0% - A+ - Excellent"}
	if calc != want {
		t.Fatalf("got %+v, want %+v", calc, want)
	}

	if err := svc.Submit(ctx, "u1", "Python Basics", []string{"a", "c"}); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	calc, err = svc.CalculateResult(ctx, "u1", "Python Basics")
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	want = Calculation{Score: "1/2", Percentage: "50.0%", Grade: "F - Fail", Result: "50.0% - F - Fail"}
	if calc != want {
		t.Fatalf("got %+v, want %+v", calc, want)
	}

	r, err := store.GetResult(ctx, "u1")
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if len(r.ExamResults) != 1 {
		t.Fatalf("want one outcome, got %+v", r.ExamResults)
	}
	if r.ExamResults[0].ExamResult != "50.0% - F - Fail" {
		t.Fatalf("stored outcome = %q", r.ExamResults[0].ExamResult)
	}
}

func TestSubmitTwiceKeepsOneEntry(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	for i := 0; i < 2; i++ {
		if err := svc.Submit(ctx, "u1", "Python Basics", []string{"a", "b"}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	u, _ := store.GetUser(ctx, "u1")
	if len(u.ExamAnswers) != 1 {
		t.Fatalf("want one submission, got %+v", u.ExamAnswers)
	}
}

func TestSubmitEmptyAnswersFails(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if err := svc.Submit(ctx, "u1", "Python Basics", nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	calc, err := svc.CalculateResult(ctx, "u1", "Python Basics")
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if calc.Percentage != "0.0%" || calc.Grade != "F - Fail" || calc.Score != "0/2" {
		t.Fatalf("got %+v", calc)
	}
}

func TestSubmitNotEnrolled(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	other := pythonBasics()
	other.Name = "Go Basics"
	if _, err := svc.CreateExam(ctx, other); err != nil {
		t.Fatalf("create exam: %v", err)
	}
	err := svc.Submit(ctx, "u1", "Go Basics", []string{"a"})
	if !errors.Is(err, ErrNotEnrolled) || KindOf(err) != KindInvalidState {
		t.Fatalf("want ErrNotEnrolled, got %v", err)
	}
	u, _ := store.GetUser(ctx, "u1")
	if len(u.ExamAnswers) != 0 {
		t.Fatalf("submissions changed: %+v", u.ExamAnswers)
	}
}

func TestSubmitUnknownExamBeforeEnrollment(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.Submit(context.Background(), "u1", "Nope", []string{"a"})
	if !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("want ErrExamNotFound, got %v", err)
	}
}

func TestCalculateWithoutSubmission(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	_, err := svc.CalculateResult(ctx, "u1", "Python Basics")
	if !errors.Is(err, ErrNoSubmission) {
		t.Fatalf("want ErrNoSubmission, got %v", err)
	}
	if _, err := store.GetResult(ctx, "u1"); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("result written: %v", err)
	}
}

func TestCalculateErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if _, err := svc.CalculateResult(ctx, "ghost", "Python Basics"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
	if _, err := svc.CalculateResult(ctx, "u1", "Nope"); !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("want ErrExamNotFound, got %v", err)
	}
}

func TestRescoringKeepsOtherOutcomes(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	if _, err := svc.PutResult(ctx, Result{UserID: "u1", ExamResults: []Outcome{{ExamName: "History", ExamResult: "75.0% - B - Good"}}}); err != nil {
		t.Fatalf("put result: %v", err)
	}
	if err := svc.Submit(ctx, "u1", "Python Basics", []string{"a", "b"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.CalculateResult(ctx, "u1", "Python Basics"); err != nil {
			t.Fatalf("calculate %d: %v", i, err)
		}
	}
	r, _ := store.GetResult(ctx, "u1")
	if len(r.ExamResults) != 2 {
		t.Fatalf("want two outcomes, got %+v", r.ExamResults)
	}
	if r.ExamResults[0].ExamName != "History" || r.ExamResults[1].ExamName != "Python Basics" {
		t.Fatalf("unexpected order: %+v", r.ExamResults)
	}
}

func TestCalculateDoesNotRecheckEnrollment(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	svc := NewService(store)
	if _, err := svc.CreateExam(ctx, pythonBasics()); err != nil {
		t.Fatal(err)
	}
	// submission present without enrollment, as seeded data can have
	if _, err := store.CreateUser(ctx, User{UserID: "u2", UserName: "Two", IsActive: true}); err != nil {
		t.Fatal(err)
	}
	if err := store.ReplaceSubmission(ctx, "u2", Submission{ExamName: "Python Basics", Answers: []string{"a"}}); err != nil {
		t.Fatal(err)
	}
	calc, err := svc.CalculateResult(ctx, "u2", "Python Basics")
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if calc.Score != "1/2" {
		t.Fatalf("got %+v", calc)
	}
}

func TestCreateExamValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemoryStore())

	empty := Exam{Name: "Empty"}
	if _, err := svc.CreateExam(ctx, empty); KindOf(err) != KindInvalid {
		t.Fatalf("zero questions: want invalid, got %v", err)
	}

	typo := pythonBasics()
	typo.Questions[1].CorrectOption = "z"
	if _, err := svc.CreateExam(ctx, typo); KindOf(err) != KindInvalid {
		t.Fatalf("bad correct_option: want invalid, got %v", err)
	}

	if _, err := svc.CreateExam(ctx, pythonBasics()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateExam(ctx, pythonBasics()); !errors.Is(err, ErrExamExists) {
		t.Fatalf("duplicate: want ErrExamExists, got %v", err)
	}
}

func TestRegisterUserConflicts(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewInMemoryStore())

	if _, err := svc.RegisterUser(ctx, NewUser{UserID: "u1", UserName: "One", Password: "h"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	tests := []NewUser{
		{UserID: "u1", UserName: "Other", Password: "h"},
		{UserID: "u9", UserName: "One", Password: "h"},
	}
	for _, in := range tests {
		if _, err := svc.RegisterUser(ctx, in); !errors.Is(err, ErrUserExists) || KindOf(err) != KindConflict {
			t.Fatalf("%+v: want ErrUserExists, got %v", in, err)
		}
	}
	if _, err := svc.RegisterUser(ctx, NewUser{UserID: "u2"}); KindOf(err) != KindInvalid {
		t.Fatalf("missing fields: want invalid, got %v", err)
	}
}

func TestPutResultUnknownUser(t *testing.T) {
	svc := NewService(NewInMemoryStore())
	_, err := svc.PutResult(context.Background(), Result{UserID: "ghost"})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}
