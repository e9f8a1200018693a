package task

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	domain "github.com/example/task-dashboard/domain/task"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoCollection = "tasks"

// MongoRepository stores tasks as documents in a MongoDB collection.
type MongoRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ domain.Repository = (*MongoRepository)(nil)

// OpenMongo connects to uri and prepares the task collection in database.
func OpenMongo(ctx context.Context, uri, database string) (*MongoRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoRepository{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
	}

	if err := repo.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return repo, nil
}

func (r *MongoRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "dueDate", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new task document.
func (r *MongoRepository) Create(ctx context.Context, t *domain.Task) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	if _, err := r.coll.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *MongoRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// List returns one page of tasks matching q together with the filtered
// and unfiltered counts.
func (r *MongoRepository) List(ctx context.Context, q domain.ListQuery) (*domain.ListResult, error) {
	filter := bson.M{}
	if q.Search != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(q.Search), "$options": "i"}
	}
	if q.FiltersStatus() {
		filter["status"] = q.Status
	}

	direction := 1
	if q.Descending() {
		direction = -1
	}

	opts := options.Find().
		SetSort(bson.D{{Key: q.SortBy, Value: direction}, {Key: "_id", Value: direction}}).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, q.Limit)
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	allTotal, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	return &domain.ListResult{Tasks: tasks, Total: total, AllTotal: allTotal}, nil
}

// Update applies patch to the task with the given ID and returns the
// updated document.
func (r *MongoRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Task, error) {
	if patch.Empty() {
		return r.FindByID(ctx, id)
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.DueDate != nil {
		set["dueDate"] = *patch.DueDate
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var t domain.Task
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &t, nil
}

// Delete removes a task by ID.
func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Ping checks the MongoDB connection.
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from MongoDB.
func (r *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

