package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/fatla/fatla-admin/internal/models"
	"github.com/sirupsen/logrus"
)

// AuditRetention is how long DynamoDB keeps an entry before TTL removes it.
const AuditRetention = 90 * 24 * time.Hour

var ErrDuplicateAuditEntry = errors.New("audit entry already exists")

// DynamoDBAPI is the part of *dynamodb.Client the audit log uses.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type AuditRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *logrus.Logger
}

func NewAuditRepository(client DynamoDBAPI, tableName string, logger *logrus.Logger) *AuditRepository {
	return &AuditRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Record stores entry under the shared AUDIT partition, sorted by time. An
// entry with a target is also written to that record's history partition.
func (r *AuditRepository) Record(ctx context.Context, entry *models.AuditEntry) error {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		r.logger.WithError(err).Error("Failed to marshal audit entry for DynamoDB")
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	item["SK"] = &types.AttributeValueMemberS{Value: entry.GetSK()}
	item["TTL"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(entry.At.Add(AuditRetention).Unix(), 10)}

	if err := r.put(ctx, entry.GetPK(), item); err != nil {
		return err
	}

	if pk := entry.HistoryPK(); pk != "" {
		if err := r.put(ctx, pk, item); err != nil && !errors.Is(err, ErrDuplicateAuditEntry) {
			return err
		}
	}

	return nil
}

func (r *AuditRepository) put(ctx context.Context, pk string, item map[string]types.AttributeValue) error {
	withPK := make(map[string]types.AttributeValue, len(item)+1)
	for k, v := range item {
		withPK[k] = v
	}
	withPK["PK"] = &types.AttributeValueMemberS{Value: pk}

	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                withPK,
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	})

	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrDuplicateAuditEntry
		}
		r.logger.WithError(err).WithField("pk", pk).Error("Failed to store audit entry in DynamoDB")
		return fmt.Errorf("failed to store audit entry: %w", err)
	}
	return nil
}

// ListRecent returns up to limit entries, newest first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int32) ([]models.AuditEntry, error) {
	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: (&models.AuditEntry{}).GetPK()},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	})

	if err != nil {
		r.logger.WithError(err).Error("Failed to query audit entries")
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	var entries []models.AuditEntry
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal audit entries: %w", err)
	}

	return entries, nil
}

// ListForTarget returns up to limit entries about one record, newest first.
// A limit of zero returns the whole history.
func (r *AuditRepository) ListForTarget(ctx context.Context, resource, targetID string, limit int) ([]models.AuditEntry, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: models.HistoryPK(resource, targetID)},
		},
		ScanIndexForward: aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(int32(limit))
	}

	var entries []models.AuditEntry
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list audit entries for %s %s: %w", resource, targetID, err)
		}

		var batch []models.AuditEntry
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit entries: %w", err)
		}
		entries = append(entries, batch...)

		if limit > 0 && len(entries) >= limit {
			return entries[:limit], nil
		}
	}

	return entries, nil
}
