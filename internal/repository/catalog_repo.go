package repository

import (
	"context"
	"dronediag/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CatalogRepo handles MongoDB operations for product catalogs.
// Catalogs are keyed by version.
type CatalogRepo interface {
	Upsert(ctx context.Context, catalog *model.Catalog) error
	GetByVersion(ctx context.Context, version string) (*model.Catalog, error)
	Latest(ctx context.Context) (*model.Catalog, error)
}

type catalogRepo struct {
	collection *mongo.Collection
}

// NewCatalogRepo creates a new catalog repository
func NewCatalogRepo(db *mongo.Database) CatalogRepo {
	return &catalogRepo{
		collection: db.Collection("catalogs"),
	}
}

func (r *catalogRepo) Upsert(ctx context.Context, catalog *model.Catalog) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": catalog.Version}, catalog, opts)
	return err
}

func (r *catalogRepo) GetByVersion(ctx context.Context, version string) (*model.Catalog, error) {
	var catalog model.Catalog
	err := r.collection.FindOne(ctx, bson.M{"_id": version}).Decode(&catalog)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Latest returns the catalog with the highest version, or nil when empty
func (r *catalogRepo) Latest(ctx context.Context) (*model.Catalog, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	var catalog model.Catalog
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&catalog)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &catalog, nil
}
