package exam

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps users, exams and results in three collections of one
// database. Documents get a generated ObjectID that the service never reads.
type MongoStore struct {
	client  *mongo.Client
	users   *mongo.Collection
	exams   *mongo.Collection
	results *mongo.Collection
}

// NewMongoStore connects lazily; the first operation (or EnsureIndexes) is
// what reaches the server.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	d := client.Database(database)
	return &MongoStore{
		client:  client,
		users:   d.Collection(collUsers),
		exams:   d.Collection(collExams),
		results: d.Collection(collResults),
	}, nil
}

// EnsureIndexes pings the server and creates the unique natural-key indexes.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return err
	}
	unique := options.Index().SetUnique(true)
	idx := []struct {
		coll *mongo.Collection
		key  string
	}{
		{s.users, "user_id"},
		{s.users, "user_name"},
		{s.exams, "exam_name"},
		{s.results, "user_id"},
	}
	for _, i := range idx {
		_, err := i.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: i.key, Value: 1}}, Options: unique})
		if err != nil {
			return fmt.Errorf("index %s.%s: %w", i.coll.Name(), i.key, err)
		}
	}
	return nil
}

// docID pulls the internal _id out of a raw document as a hex string.
func docID(raw bson.Raw) string {
	v, err := raw.LookupErr("_id")
	if err != nil {
		return ""
	}
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := v.StringValueOK(); ok {
		return s
	}
	return v.String()
}

func decodeUser(raw bson.Raw, key string) (User, error) {
	var u User
	if err := bson.Unmarshal(raw, &u); err != nil {
		return User{}, &DecodeError{Collection: collUsers, Key: key, Err: err}
	}
	if err := checkUser(key, &u); err != nil {
		return User{}, err
	}
	u.ID = docID(raw)
	return u, nil
}

func decodeExam(raw bson.Raw, key string) (Exam, error) {
	var e Exam
	if err := bson.Unmarshal(raw, &e); err != nil {
		return Exam{}, &DecodeError{Collection: collExams, Key: key, Err: err}
	}
	if err := checkExam(key, &e); err != nil {
		return Exam{}, err
	}
	e.ID = docID(raw)
	return e, nil
}

func decodeResult(raw bson.Raw, key string) (Result, error) {
	var r Result
	if err := bson.Unmarshal(raw, &r); err != nil {
		return Result{}, &DecodeError{Collection: collResults, Key: key, Err: err}
	}
	if err := checkResult(key, &r); err != nil {
		return Result{}, err
	}
	r.ID = docID(raw)
	return r, nil
}

func (s *MongoStore) findOne(ctx context.Context, c *mongo.Collection, filter any, notFound error) (bson.Raw, error) {
	raw, err := c.FindOne(ctx, filter).Raw()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.Name(), err)
	}
	return raw, nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u User) (User, error) {
	n, err := s.users.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"user_id": u.UserID},
		bson.M{"user_name": u.UserName},
	}})
	if err != nil {
		return User{}, fmt.Errorf("check user: %w", err)
	}
	if n > 0 {
		return User{}, ErrUserExists
	}
	if u.ExamsEnrolled == nil {
		u.ExamsEnrolled = []string{}
	}
	if u.ExamAnswers == nil {
		u.ExamAnswers = []Submission{}
	}
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return s.GetUser(ctx, u.UserID)
}

func (s *MongoStore) GetUser(ctx context.Context, userID string) (User, error) {
	raw, err := s.findOne(ctx, s.users, bson.M{"user_id": userID}, ErrUserNotFound)
	if err != nil {
		return User{}, err
	}
	return decodeUser(raw, userID)
}

func (s *MongoStore) FindUser(ctx context.Context, login string) (User, error) {
	u, err := s.GetUser(ctx, login)
	if !errors.Is(err, ErrUserNotFound) {
		return u, err
	}
	raw, err := s.findOne(ctx, s.users, bson.M{"user_name": login}, ErrUserNotFound)
	if err != nil {
		return User{}, err
	}
	return decodeUser(raw, login)
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]User, error) {
	cur, err := s.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)
	out := []User{}
	for cur.Next(ctx) {
		key, _ := cur.Current.Lookup("user_id").StringValueOK()
		u, err := decodeUser(cur.Current, key)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, cur.Err()
}

// replaceByName builds a pipeline update that keeps every element of field
// whose exam_name differs from name and appends elem. Values go through
// $literal so strings starting with "$" are not read as field paths.
func replaceByName(field, name string, elem any) mongo.Pipeline {
	kept := bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, bson.A{}}}}},
		{Key: "as", Value: "e"},
		{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$e.exam_name", bson.D{{Key: "$literal", Value: name}}}}}},
	}}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: field, Value: bson.D{{Key: "$concatArrays", Value: bson.A{
				kept,
				bson.D{{Key: "$literal", Value: bson.A{elem}}},
			}}}},
		}}},
	}
}

func (s *MongoStore) ReplaceSubmission(ctx context.Context, userID string, sub Submission) error {
	if sub.Answers == nil {
		sub.Answers = []string{}
	}
	res, err := s.users.UpdateOne(ctx, bson.M{"user_id": userID}, replaceByName("exam_answers", sub.ExamName, sub))
	if err != nil {
		return fmt.Errorf("replace submission: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *MongoStore) CreateExam(ctx context.Context, e Exam) (Exam, error) {
	n, err := s.exams.CountDocuments(ctx, bson.M{"exam_name": e.Name})
	if err != nil {
		return Exam{}, fmt.Errorf("check exam: %w", err)
	}
	if n > 0 {
		return Exam{}, ErrExamExists
	}
	if _, err := s.exams.InsertOne(ctx, e); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Exam{}, ErrExamExists
		}
		return Exam{}, fmt.Errorf("insert exam: %w", err)
	}
	return s.GetExam(ctx, e.Name)
}

func (s *MongoStore) GetExam(ctx context.Context, name string) (Exam, error) {
	raw, err := s.findOne(ctx, s.exams, bson.M{"exam_name": name}, ErrExamNotFound)
	if err != nil {
		return Exam{}, err
	}
	return decodeExam(raw, name)
}

func (s *MongoStore) ListExams(ctx context.Context) ([]Exam, error) {
	cur, err := s.exams.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer cur.Close(ctx)
	out := []Exam{}
	for cur.Next(ctx) {
		key, _ := cur.Current.Lookup("exam_name").StringValueOK()
		e, err := decodeExam(cur.Current, key)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, cur.Err()
}

func (s *MongoStore) GetResult(ctx context.Context, userID string) (Result, error) {
	raw, err := s.findOne(ctx, s.results, bson.M{"user_id": userID}, ErrResultNotFound)
	if err != nil {
		return Result{}, err
	}
	return decodeResult(raw, userID)
}

func (s *MongoStore) ListResults(ctx context.Context) ([]Result, error) {
	cur, err := s.results.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer cur.Close(ctx)
	out := []Result{}
	for cur.Next(ctx) {
		key, _ := cur.Current.Lookup("user_id").StringValueOK()
		r, err := decodeResult(cur.Current, key)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, cur.Err()
}

func (s *MongoStore) PutResult(ctx context.Context, r Result) (Result, error) {
	if r.ExamResults == nil {
		r.ExamResults = []Outcome{}
	}
	_, err := s.results.UpdateOne(ctx,
		bson.M{"user_id": r.UserID},
		bson.M{"$set": bson.M{"exam_results": r.ExamResults}},
		options.Update().SetUpsert(true))
	if err != nil {
		return Result{}, fmt.Errorf("put result: %w", err)
	}
	return s.GetResult(ctx, r.UserID)
}

func (s *MongoStore) ReplaceOutcome(ctx context.Context, userID string, o Outcome) error {
	_, err := s.results.UpdateOne(ctx,
		bson.M{"user_id": userID},
		replaceByName("exam_results", o.ExamName, o),
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace outcome: %w", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }
