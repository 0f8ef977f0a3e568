package exam

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mind-engage/student-submissions/internal/db"
)

func newSQLiteStore(t *testing.T) *SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	h, err := db.Open(db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.EnsureSchema(context.Background(), h); err != nil {
		t.Fatalf("schema: %v", err)
	}
	s := NewSQLStore(h, db.DriverSQLite)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestSQLStoreUsers(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	u, err := s.CreateUser(ctx, User{UserID: "u1", UserName: "One", HashedPassword: "h", ExamsEnrolled: []string{"Python Basics"}, IsActive: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" || u.HashedPassword != "h" || !u.IsActive {
		t.Fatalf("unexpected user: %+v", u)
	}
	if _, err := s.CreateUser(ctx, User{UserID: "u2", UserName: "One"}); !errors.Is(err, ErrUserExists) {
		t.Fatalf("want ErrUserExists, got %v", err)
	}

	byName, err := s.FindUser(ctx, "One")
	if err != nil || byName.UserID != "u1" {
		t.Fatalf("find by name: %+v %v", byName, err)
	}
	if _, err := s.FindUser(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}

	if err := s.ReplaceSubmission(ctx, "u1", Submission{ExamName: "Python Basics", Answers: []string{"a", "b"}}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := s.ReplaceSubmission(ctx, "u1", Submission{ExamName: "Python Basics", Answers: []string{"c"}}); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	got, _ := s.GetUser(ctx, "u1")
	if len(got.ExamAnswers) != 1 || got.ExamAnswers[0].Answers[0] != "c" {
		t.Fatalf("submissions: %+v", got.ExamAnswers)
	}
	if err := s.ReplaceSubmission(ctx, "ghost", Submission{ExamName: "x"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}

	list, err := s.ListUsers(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %+v %v", list, err)
	}
}

func TestSQLStoreExams(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	e, err := s.CreateExam(ctx, pythonBasics())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.ID == "" || len(e.Questions) != 2 || e.Questions[1].CorrectOption != "b" {
		t.Fatalf("unexpected exam: %+v", e)
	}
	if _, err := s.CreateExam(ctx, pythonBasics()); !errors.Is(err, ErrExamExists) {
		t.Fatalf("want ErrExamExists, got %v", err)
	}
	if _, err := s.GetExam(ctx, "Nope"); !errors.Is(err, ErrExamNotFound) {
		t.Fatalf("want ErrExamNotFound, got %v", err)
	}
	list, err := s.ListExams(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %+v %v", list, err)
	}
}

func TestSQLStoreResults(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	if _, err := s.GetResult(ctx, "u1"); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("want ErrResultNotFound, got %v", err)
	}
	if err := s.ReplaceOutcome(ctx, "u1", Outcome{ExamName: "A", ExamResult: "100.0% - A+ - Excellent"}); err != nil {
		t.Fatalf("first outcome: %v", err)
	}
	if err := s.ReplaceOutcome(ctx, "u1", Outcome{ExamName: "B", ExamResult: "50.0% - F - Fail"}); err != nil {
		t.Fatalf("second outcome: %v", err)
	}
	if err := s.ReplaceOutcome(ctx, "u1", Outcome{ExamName: "A", ExamResult: "0.0% - F - Fail"}); err != nil {
		t.Fatalf("rescore: %v", err)
	}
	r, err := s.GetResult(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := []Outcome{{"B", "50.0% - F - Fail"}, {"A", "0.0% - F - Fail"}}
	if len(r.ExamResults) != len(want) {
		t.Fatalf("outcomes: %+v", r.ExamResults)
	}
	for i := range want {
		if r.ExamResults[i] != want[i] {
			t.Fatalf("outcome %d = %+v, want %+v", i, r.ExamResults[i], want[i])
		}
	}

	put, err := s.PutResult(ctx, Result{UserID: "u1", ExamResults: []Outcome{{"C", "70.0% - B - Good"}}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if put.ID != r.ID || len(put.ExamResults) != 1 {
		t.Fatalf("put replaced document: %+v (was %s)", put, r.ID)
	}
	list, err := s.ListResults(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %+v %v", list, err)
	}
}

func TestSQLStoreDecodeError(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteStore(t)

	if _, err := s.db.ExecContext(ctx, `INSERT INTO exams (id,exam_name,doc,created_at) VALUES ('x','Broken','{"exam_name":"Broken","questions":"nope"}',0)`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO exams (id,exam_name,doc,created_at) VALUES ('y','Hollow','{"exam_name":"Hollow","questions":[]}',1)`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	for _, name := range []string{"Broken", "Hollow"} {
		_, err := s.GetExam(ctx, name)
		var de *DecodeError
		if !errors.As(err, &de) || KindOf(err) != KindDecode {
			t.Fatalf("%s: want DecodeError, got %v", name, err)
		}
		if de.Collection != "exams" || de.Key != name {
			t.Fatalf("%s: decode error fields: %+v", name, de)
		}
	}
}

func TestServiceOverSQLite(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newSQLiteStore(t))

	if _, err := svc.CreateExam(ctx, pythonBasics()); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RegisterUser(ctx, NewUser{UserID: "u1", UserName: "One", Password: "h", ExamsEnrolled: []string{"Python Basics"}}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Submit(ctx, "u1", "Python Basics", []string{"a", "c"}); err != nil {
		t.Fatal(err)
	}
	calc, err := svc.CalculateResult(ctx, "u1", "Python Basics")
	if err != nil {
		t.Fatal(err)
	}
	if calc.Result != "50.0% - F - Fail" {
		t.Fatalf("got %+v", calc)
	}
}
