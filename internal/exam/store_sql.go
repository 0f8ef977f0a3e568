package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mind-engage/student-submissions/internal/db"
)

// SQLStore keeps each document as JSON in the table named after its
// collection. It runs on SQLite and PostgreSQL.
type SQLStore struct {
	db     *sql.DB
	driver db.Driver
}

func NewSQLStore(h *sql.DB, driver db.Driver) *SQLStore {
	return &SQLStore{db: h, driver: driver}
}

// forUpdate locks the selected row on drivers that support row locks.
func (s *SQLStore) forUpdate() string {
	if s.driver == db.DriverPostgres {
		return " FOR UPDATE"
	}
	return ""
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, key string) (User, error) {
	var id, doc string
	if err := row.Scan(&id, &doc); err != nil {
		return User{}, err
	}
	var u User
	if err := json.Unmarshal([]byte(doc), &u); err != nil {
		return User{}, &DecodeError{Collection: collUsers, Key: key, Err: err}
	}
	if err := checkUser(key, &u); err != nil {
		return User{}, err
	}
	u.ID = id
	return u, nil
}

func scanExam(row rowScanner, key string) (Exam, error) {
	var id, doc string
	if err := row.Scan(&id, &doc); err != nil {
		return Exam{}, err
	}
	var e Exam
	if err := json.Unmarshal([]byte(doc), &e); err != nil {
		return Exam{}, &DecodeError{Collection: collExams, Key: key, Err: err}
	}
	if err := checkExam(key, &e); err != nil {
		return Exam{}, err
	}
	e.ID = id
	return e, nil
}

func scanResult(row rowScanner, key string) (Result, error) {
	var id, doc string
	if err := row.Scan(&id, &doc); err != nil {
		return Result{}, err
	}
	var r Result
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return Result{}, &DecodeError{Collection: collResults, Key: key, Err: err}
	}
	if err := checkResult(key, &r); err != nil {
		return Result{}, err
	}
	r.ID = id
	return r, nil
}

func (s *SQLStore) CreateUser(ctx context.Context, u User) (User, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE user_id=$1 OR user_name=$2`, u.UserID, u.UserName).Scan(&one)
	if err == nil {
		return User{}, ErrUserExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return User{}, fmt.Errorf("check user: %w", err)
	}
	u.ID = uuid.NewString()
	doc, err := json.Marshal(u)
	if err != nil {
		return User{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO users (id,user_id,user_name,doc,created_at) VALUES ($1,$2,$3,$4,$5)`,
		u.ID, u.UserID, u.UserName, string(doc), time.Now().UnixNano())
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return s.GetUser(ctx, u.UserID)
}

func (s *SQLStore) GetUser(ctx context.Context, userID string) (User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT id,doc FROM users WHERE user_id=$1`, userID), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (s *SQLStore) FindUser(ctx context.Context, login string) (User, error) {
	u, err := s.GetUser(ctx, login)
	if !errors.Is(err, ErrUserNotFound) {
		return u, err
	}
	u, err = scanUser(s.db.QueryRowContext(ctx, `SELECT id,doc FROM users WHERE user_name=$1`, login), login)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,doc,user_id FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		var id, doc, key string
		if err := rows.Scan(&id, &doc, &key); err != nil {
			return nil, err
		}
		u, err := scanUser(staticRow{id, doc}, key)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLStore) ReplaceSubmission(ctx context.Context, userID string, sub Submission) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	u, err := scanUser(tx.QueryRowContext(ctx, `SELECT id,doc FROM users WHERE user_id=$1`+s.forUpdate(), userID), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	u.ExamAnswers = replaceSubmission(u.ExamAnswers, sub)
	doc, err := json.Marshal(u)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE users SET doc=$1 WHERE user_id=$2`, string(doc), userID)
	return err
}

func (s *SQLStore) CreateExam(ctx context.Context, e Exam) (Exam, error) {
	e.ID = uuid.NewString()
	doc, err := json.Marshal(e)
	if err != nil {
		return Exam{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO exams (id,exam_name,doc,created_at) VALUES ($1,$2,$3,$4)`,
		e.ID, e.Name, string(doc), time.Now().UnixNano())
	if err != nil {
		if isUniqueViolation(err) {
			return Exam{}, ErrExamExists
		}
		return Exam{}, fmt.Errorf("insert exam: %w", err)
	}
	return s.GetExam(ctx, e.Name)
}

func (s *SQLStore) GetExam(ctx context.Context, name string) (Exam, error) {
	e, err := scanExam(s.db.QueryRowContext(ctx, `SELECT id,doc FROM exams WHERE exam_name=$1`, name), name)
	if errors.Is(err, sql.ErrNoRows) {
		return Exam{}, ErrExamNotFound
	}
	return e, err
}

func (s *SQLStore) ListExams(ctx context.Context) ([]Exam, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,doc,exam_name FROM exams ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Exam{}
	for rows.Next() {
		var id, doc, key string
		if err := rows.Scan(&id, &doc, &key); err != nil {
			return nil, err
		}
		e, err := scanExam(staticRow{id, doc}, key)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetResult(ctx context.Context, userID string) (Result, error) {
	r, err := scanResult(s.db.QueryRowContext(ctx, `SELECT id,doc FROM results WHERE user_id=$1`, userID), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrResultNotFound
	}
	return r, err
}

func (s *SQLStore) ListResults(ctx context.Context) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,doc,user_id FROM results ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Result{}
	for rows.Next() {
		var id, doc, key string
		if err := rows.Scan(&id, &doc, &key); err != nil {
			return nil, err
		}
		r, err := scanResult(staticRow{id, doc}, key)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutResult(ctx context.Context, r Result) (Result, error) {
	if r.ExamResults == nil {
		r.ExamResults = []Outcome{}
	}
	doc, err := json.Marshal(Result{UserID: r.UserID, ExamResults: r.ExamResults})
	if err != nil {
		return Result{}, err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO results (id,user_id,doc,created_at) VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id) DO UPDATE SET doc=EXCLUDED.doc`,
		uuid.NewString(), r.UserID, string(doc), time.Now().UnixNano())
	if err != nil {
		return Result{}, fmt.Errorf("upsert result: %w", err)
	}
	return s.GetResult(ctx, r.UserID)
}

func (s *SQLStore) ReplaceOutcome(ctx context.Context, userID string, o Outcome) error {
	err := s.replaceOutcome(ctx, userID, o)
	if isUniqueViolation(err) {
		// a concurrent call created the document first; apply on top of it
		err = s.replaceOutcome(ctx, userID, o)
	}
	return err
}

func (s *SQLStore) replaceOutcome(ctx context.Context, userID string, o Outcome) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	r, err := scanResult(tx.QueryRowContext(ctx, `SELECT id,doc FROM results WHERE user_id=$1`+s.forUpdate(), userID), userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		doc, err := json.Marshal(Result{UserID: userID, ExamResults: []Outcome{o}})
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO results (id,user_id,doc,created_at) VALUES ($1,$2,$3,$4)`,
			uuid.NewString(), userID, string(doc), time.Now().UnixNano())
		return err
	case err != nil:
		return err
	}
	r.ExamResults = replaceOutcome(r.ExamResults, o)
	doc, err := json.Marshal(Result{UserID: r.UserID, ExamResults: r.ExamResults})
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE results SET doc=$1 WHERE user_id=$2`, string(doc), userID)
	return err
}

func (s *SQLStore) Close(context.Context) error { return s.db.Close() }

// staticRow feeds already-scanned columns back through the scan helpers.
type staticRow struct{ id, doc string }

func (r staticRow) Scan(dest ...any) error {
	*(dest[0].(*string)) = r.id
	*(dest[1].(*string)) = r.doc
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") // sqlite
}
