package repository

import (
	"context"
	"dronediag/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TemplateRepo handles MongoDB operations for result templates
type TemplateRepo interface {
	Upsert(ctx context.Context, set *model.ResultTemplateSet) error
	Latest(ctx context.Context) (*model.ResultTemplateSet, error)
}

type templateRepo struct {
	collection *mongo.Collection
}

// NewTemplateRepo creates a new result template repository
func NewTemplateRepo(db *mongo.Database) TemplateRepo {
	return &templateRepo{
		collection: db.Collection("result_templates"),
	}
}

func (r *templateRepo) Upsert(ctx context.Context, set *model.ResultTemplateSet) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": set.Version}, set, opts)
	return err
}

func (r *templateRepo) Latest(ctx context.Context) (*model.ResultTemplateSet, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	var set model.ResultTemplateSet
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&set)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &set, nil
}
