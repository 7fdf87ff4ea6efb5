package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/todo-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	_ TodoRepository = (*MongoTodoRepository)(nil)
	_ UserRepository = (*MongoUserRepository)(nil)
)

const (
	todosCollection = "todos"
	usersCollection = "users"
)

var newestFirstSort = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// MongoTodoRepository stores todos as documents keyed by their UUID.
type MongoTodoRepository struct {
	coll *mongo.Collection
}

// NewMongoTodoRepository creates a TodoRepository and ensures its indexes
func NewMongoTodoRepository(ctx context.Context, db *mongo.Database) (*MongoTodoRepository, error) {
	coll := db.Collection(todosCollection)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "completed", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create todo indexes: %w", err)
	}
	return &MongoTodoRepository{coll: coll}, nil
}

func (r *MongoTodoRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	t := prepareMongoTodo(todo, uuid.NewString(), time.Now().UTC())
	if _, err := r.coll.InsertOne(ctx, t); err != nil {
		return nil, translateMongoError(err, "failed to create todo")
	}
	return &t, nil
}

// prepareMongoTodo is prepareTodo with timestamps cut to what a BSON datetime
// stores, so the returned todo matches what a later read decodes.
func prepareMongoTodo(todo *models.Todo, id string, now time.Time) models.Todo {
	t := prepareTodo(todo, id, now)
	t.CreatedAt = bsonTime(t.CreatedAt)
	t.UpdatedAt = bsonTime(t.UpdatedAt)
	if t.DueDate != nil {
		due := bsonTime(*t.DueDate)
		t.DueDate = &due
	}
	return t
}

func bsonTime(t time.Time) time.Time {
	return t.Truncate(time.Millisecond)
}

func (r *MongoTodoRepository) GetByID(ctx context.Context, id string) (*models.Todo, error) {
	var todo models.Todo
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&todo); err != nil {
		return nil, translateMongoError(err, "failed to get todo")
	}
	return &todo, nil
}

func (r *MongoTodoRepository) GetAll(ctx context.Context) ([]models.Todo, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoTodoRepository) GetActive(ctx context.Context) ([]models.Todo, error) {
	return r.find(ctx, bson.M{"completed": false})
}

func (r *MongoTodoRepository) GetCompleted(ctx context.Context) ([]models.Todo, error) {
	return r.find(ctx, bson.M{"completed": true})
}

func (r *MongoTodoRepository) Update(ctx context.Context, id string, changes TodoChanges) (*models.Todo, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if changes.Title != nil {
		set["title"] = *changes.Title
	}
	if changes.Completed != nil {
		set["completed"] = *changes.Completed
	}
	if changes.Priority != nil {
		set["priority"] = *changes.Priority
	}
	update := bson.M{"$set": set}
	if changes.ClearDueDate {
		update["$unset"] = bson.M{"dueDate": ""}
	} else if changes.DueDate != nil {
		set["dueDate"] = changes.DueDate.UTC()
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var todo models.Todo
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&todo); err != nil {
		return nil, translateMongoError(err, "failed to update todo")
	}
	return &todo, nil
}

func (r *MongoTodoRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateMongoError(err, "failed to delete todo")
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTodoRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return count, nil
}

func (r *MongoTodoRepository) find(ctx context.Context, filter bson.M) ([]models.Todo, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(newestFirstSort))
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	todos := []models.Todo{}
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, fmt.Errorf("failed to decode todos: %w", err)
	}
	return todos, nil
}

// MongoUserRepository stores users with unique indexes on email and username.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a UserRepository and ensures its unique indexes
func NewMongoUserRepository(ctx context.Context, db *mongo.Database) (*MongoUserRepository, error) {
	coll := db.Collection(usersCollection)
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user indexes: %w", err)
	}
	return &MongoUserRepository{coll: coll}, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	u := *user
	u.ID = uuid.NewString()
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	u.CreatedAt = bsonTime(u.CreatedAt)
	u.UpdatedAt = bsonTime(u.UpdatedAt)

	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		return nil, translateMongoError(err, "failed to create user")
	}
	return &u, nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) first(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, translateMongoError(err, "failed to get user")
	}
	return &u, nil
}

func (r *MongoUserRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

func translateMongoError(err error, msg string) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", msg, errors.Join(ErrDuplicate, err))
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
