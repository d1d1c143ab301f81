package repository

import (
	"context"
	"dronediag/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionSetRepo handles MongoDB operations for question sets
type QuestionSetRepo interface {
	Upsert(ctx context.Context, set *model.QuestionSet) error
	GetByID(ctx context.Context, id string) (*model.QuestionSet, error)
	GetAll(ctx context.Context) ([]*model.QuestionSet, error)
}

type questionSetRepo struct {
	collection *mongo.Collection
}

// NewQuestionSetRepo creates a new question set repository
func NewQuestionSetRepo(db *mongo.Database) QuestionSetRepo {
	return &questionSetRepo{
		collection: db.Collection("question_sets"),
	}
}

func (r *questionSetRepo) Upsert(ctx context.Context, set *model.QuestionSet) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": set.ID}, set, opts)
	return err
}

func (r *questionSetRepo) GetByID(ctx context.Context, id string) (*model.QuestionSet, error) {
	var set model.QuestionSet
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&set)
	if err == mongo.ErrNoDocuments {
		return nil, nil // Question set not found
	}
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *questionSetRepo) GetAll(ctx context.Context) ([]*model.QuestionSet, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sets []*model.QuestionSet
	if err = cursor.All(ctx, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}
