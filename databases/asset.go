package databases

// go generate: mockery --name AssetDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parentalrights/complaint-portal-api/models"
)

const assetName = "assets"

// AssetDatabase contains the methods to use with the asset database
type AssetDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Asset, error)
	InsertOne(ctx context.Context, asset models.Asset, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
}

type assetDatabase struct {
	db DatabaseHelper
}

// NewAssetDatabase initializes a new instance of asset database with the provided db connection
func NewAssetDatabase(db DatabaseHelper) AssetDatabase {
	return &assetDatabase{
		db: db,
	}
}

func (a *assetDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Asset, error) {
	var assets []models.Asset
	curr, err := a.db.Collection(assetName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &assets)
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func (a *assetDatabase) InsertOne(ctx context.Context, asset models.Asset, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	res, err := a.db.Collection(assetName).InsertOne(ctx, asset, opts...)
	return res, err
}
