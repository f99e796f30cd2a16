package shipment

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore implements Store over a DynamoDB table keyed by shipmentId.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

var _ Store = (*DynamoStore)(nil)

// NewDynamoClient creates a DynamoDB client with an optional endpoint
// override (LocalStack).
func NewDynamoClient(cfg aws.Config, endpointURL string) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpointURL != "" {
			o.BaseEndpoint = aws.String(endpointURL)
		}
	})
}

// NewDynamoStore creates a DynamoStore for the given table.
func NewDynamoStore(client *dynamodb.Client, tableName string) *DynamoStore {
	return &DynamoStore{client: client, tableName: tableName}
}

func shipmentKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"shipmentId": &types.AttributeValueMemberS{Value: id},
	}
}

// List scans the whole table. Shipment counts are small; pagination is
// still handled for completeness.
func (s *DynamoStore) List(ctx context.Context) ([]Shipment, error) {
	input := &dynamodb.ScanInput{TableName: &s.tableName}

	var all []Shipment
	for {
		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("Scan %s: %w", s.tableName, err)
		}

		page := make([]Shipment, 0, len(result.Items))
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal scan page: %w", err)
		}
		all = append(all, page...)

		if result.LastEvaluatedKey == nil {
			return all, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// Get reads a single record; returns nil when the record does not exist.
func (s *DynamoStore) Get(ctx context.Context, id string) (*Shipment, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key:       shipmentKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem %s: %w", id, err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var out Shipment
	if err := attributevalue.UnmarshalMap(result.Item, &out); err != nil {
		return nil, fmt.Errorf("unmarshal shipment %s: %w", id, err)
	}
	return &out, nil
}

// Save creates or overwrites a record.
func (s *DynamoStore) Save(ctx context.Context, sh *Shipment) error {
	item, err := attributevalue.MarshalMap(sh)
	if err != nil {
		return fmt.Errorf("marshal shipment %s: %w", sh.ID, err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("PutItem %s: %w", sh.ID, err)
	}
	return nil
}

// Delete removes a record by ID.
func (s *DynamoStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.tableName,
		Key:       shipmentKey(id),
	})
	if err != nil {
		return fmt.Errorf("DeleteItem %s: %w", id, err)
	}
	return nil
}
