package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	appconfig "github.com/roy777rajat/my-photo-app/internal/config"
	"github.com/roy777rajat/my-photo-app/internal/domain"
)

// CatalogRepository is the metadata half of the photo store: one immutable
// record per photo, retrieved only by full scan. No uniqueness check is done
// here; identifier freshness is the caller's responsibility.
type CatalogRepository interface {
	PutRecord(ctx context.Context, rec domain.PhotoRecord) error
	Scan(ctx context.Context) ([]domain.PhotoRecord, error)
	Ping(ctx context.Context) error
}

type dynamoRepository struct {
	client *dynamodb.Client
	cfg    *appconfig.AWSConfig
	log    *zap.Logger
}

func NewCatalogRepository(awsCfg aws.Config, cfg *appconfig.AWSConfig, log *zap.Logger) CatalogRepository {
	return &dynamoRepository{
		client: dynamodb.NewFromConfig(awsCfg),
		cfg:    cfg,
		log:    log,
	}
}

// Ping checks that the table exists and is reachable. A missing table maps
// to domain.ErrTableNotFound so the server can degrade instead of exiting.
func (r *dynamoRepository) Ping(ctx context.Context) error {
	_, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.cfg.TableName),
	})
	if err != nil {
		return classifyAWSError(err)
	}
	return nil
}

func (r *dynamoRepository) PutRecord(ctx context.Context, rec domain.PhotoRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal photo record: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.cfg.TableName),
		Item:      item,
	})

	if err != nil {
		r.log.Error("Failed to put photo record",
			zap.String("photo_id", rec.PhotoID),
			zap.Error(err))
		return classifyAWSError(err)
	}

	r.log.Info("Photo record saved",
		zap.String("photo_id", rec.PhotoID),
		zap.String("key", rec.StorageKey))

	return nil
}

// Scan returns every record in the table, unordered. The catalog is small by
// design; pagination here only follows LastEvaluatedKey to completeness.
func (r *dynamoRepository) Scan(ctx context.Context) ([]domain.PhotoRecord, error) {
	var records []domain.PhotoRecord
	var startKey map[string]ddbtypes.AttributeValue

	for {
		output, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.cfg.TableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			r.log.Error("Failed to scan catalog table", zap.Error(err))
			return nil, classifyAWSError(err)
		}

		var page []domain.PhotoRecord
		if err := attributevalue.UnmarshalListOfMaps(output.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal photo records: %w", err)
		}
		records = append(records, page...)

		if output.LastEvaluatedKey == nil {
			break
		}
		startKey = output.LastEvaluatedKey
	}

	return records, nil
}
