package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"serene-api/domain"
)

const (
	tasksCollection   = "tasks"
	journalCollection = "journal"

	serverSelectionTimeout = 5 * time.Second
	connectTimeout         = 10 * time.Second
	socketTimeout          = 45 * time.Second
)

// Store provides access to the backing document database. Every query and
// mutation is scoped by the owning user id; nothing here crosses user
// boundaries.
type Store struct {
	client  *mongo.Client
	tasks   *mongo.Collection
	journal *mongo.Collection
}

// New connects to the document database. Timeouts are short so a dead
// backend fails a request fast instead of hanging it.
func New(ctx context.Context, uri, database string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetConnectTimeout(connectTimeout).
		SetSocketTimeout(socketTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	db := client.Database(database)
	store := &Store{
		client:  client,
		tasks:   db.Collection(tasksCollection),
		journal: db.Collection(journalCollection),
	}
	if err := store.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// ensureIndexes creates the compound indexes the list and aggregate queries
// run against. Creation is idempotent: an identical existing index is a
// no-op on the server.
func (s *Store) ensureIndexes(ctx context.Context) error {
	if _, err := s.tasks.Indexes().CreateMany(ctx, taskIndexes()); err != nil {
		return err
	}
	_, err := s.journal.Indexes().CreateMany(ctx, journalIndexes())
	return err
}

func taskIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
}

func journalIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}},
	}
}

// Close disconnects from the database.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping verifies connectivity to the primary.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"userId"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Completed   bool               `bson:"completed"`
	DueDate     time.Time          `bson:"dueDate"`
	Priority    string             `bson:"priority"`
	Subtasks    []domain.Subtask   `bson:"subtasks"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d taskDocument) toDomain() domain.Task {
	return domain.Task{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		DueDate:     d.DueDate,
		Priority:    domain.Priority(d.Priority),
		Subtasks:    d.Subtasks,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// ListTasks returns the user's tasks ordered by creation time, newest first.
func (s *Store) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.tasks.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	tasks := []domain.Task{}
	for cur.Next(ctx) {
		var doc taskDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		tasks = append(tasks, doc.toDomain())
	}
	return tasks, cur.Err()
}

// InsertTask persists a new task and returns it with the generated id.
func (s *Store) InsertTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	doc := taskDocument{
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		DueDate:     task.DueDate,
		Priority:    string(task.Priority),
		Subtasks:    task.Subtasks,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if doc.Subtasks == nil {
		doc.Subtasks = []domain.Subtask{}
	}
	res, err := s.tasks.InsertOne(ctx, doc)
	if err != nil {
		return domain.Task{}, err
	}
	task.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return task, nil
}

// UpdateTask applies the given field set to the user's task. It reports
// whether a matching owned document existed; a malformed id matches nothing.
func (s *Store) UpdateTask(ctx context.Context, userID, id string, fields map[string]any) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	set := bson.M(fields)
	set["updatedAt"] = time.Now().UTC()
	res, err := s.tasks.UpdateOne(ctx, bson.M{"_id": oid, "userId": userID}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// DeleteTask removes the user's task and reports whether anything was deleted.
func (s *Store) DeleteTask(ctx context.Context, userID, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := s.tasks.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

type journalDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Date      time.Time          `bson:"date"`
	Mood      string             `bson:"mood"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d journalDocument) toDomain() domain.JournalEntry {
	return domain.JournalEntry{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Date:      d.Date,
		Mood:      domain.Mood(d.Mood),
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
	}
}

// ListEntries returns the user's journal entries ordered by date, newest
// first.
func (s *Store) ListEntries(ctx context.Context, userID string) ([]domain.JournalEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.journal.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	entries := []domain.JournalEntry{}
	for cur.Next(ctx) {
		var doc journalDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		entries = append(entries, doc.toDomain())
	}
	return entries, cur.Err()
}

// InsertEntry persists a new journal entry and returns it with the generated
// id.
func (s *Store) InsertEntry(ctx context.Context, entry domain.JournalEntry) (domain.JournalEntry, error) {
	doc := journalDocument{
		UserID:    entry.UserID,
		Date:      entry.Date,
		Mood:      string(entry.Mood),
		Content:   entry.Content,
		CreatedAt: entry.CreatedAt,
	}
	res, err := s.journal.InsertOne(ctx, doc)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	entry.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return entry, nil
}

// RewardCounts computes the aggregates achievements derive from: completed
// task count, journal entry count, and the number of distinct calendar days
// with at least one completed task.
func (s *Store) RewardCounts(ctx context.Context, userID string) (domain.RewardCounts, error) {
	completed, err := s.tasks.CountDocuments(ctx, bson.M{"userId": userID, "completed": true})
	if err != nil {
		return domain.RewardCounts{}, err
	}
	entries, err := s.journal.CountDocuments(ctx, bson.M{"userId": userID})
	if err != nil {
		return domain.RewardCounts{}, err
	}

	opts := options.Find().SetProjection(bson.M{"updatedAt": 1})
	cur, err := s.tasks.Find(ctx, bson.M{"userId": userID, "completed": true}, opts)
	if err != nil {
		return domain.RewardCounts{}, err
	}
	defer cur.Close(ctx)

	days := map[string]struct{}{}
	for cur.Next(ctx) {
		var doc struct {
			UpdatedAt time.Time `bson:"updatedAt"`
		}
		if err := cur.Decode(&doc); err != nil {
			return domain.RewardCounts{}, err
		}
		days[doc.UpdatedAt.UTC().Format("2006-01-02")] = struct{}{}
	}
	if err := cur.Err(); err != nil {
		return domain.RewardCounts{}, err
	}

	return domain.RewardCounts{
		CompletedTasks: completed,
		JournalEntries: entries,
		CompletedDays:  len(days),
	}, nil
}
