// Package dynamodb stores ledger entries in a DynamoDB table.
//
// Table schema:
//   - Partition key: ledger (string) - the ledger name, so one table can hold many ledgers
//   - Sort key: name (string) - the source name
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name seahash-ledger \
//	  --attribute-definitions AttributeName=ledger,AttributeType=S AttributeName=name,AttributeType=S \
//	  --key-schema AttributeName=ledger,KeyType=HASH AttributeName=name,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/seahash"
	"github.com/hupe1980/seahash/ledger"
)

// Client is the subset of the DynamoDB API used by Store.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

const (
	attrLedger     = "ledger"
	attrName       = "name"
	attrDigest     = "digest"
	attrSize       = "size"
	attrSeed       = "seed"
	attrRecordedAt = "recorded_at"
)

// Store implements ledger.Store on a DynamoDB table.
type Store struct {
	client Client
	table  string
	ledger string
}

var _ ledger.Store = (*Store)(nil)

// NewStore creates a Store for the named ledger in table.
func NewStore(client Client, table, ledgerName string) *Store {
	return &Store{client: client, table: table, ledger: ledgerName}
}

// New creates a Store using the default AWS configuration.
func New(ctx context.Context, table, ledgerName string, optFns ...func(*config.LoadOptions) error) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewStore(dynamodb.NewFromConfig(cfg), table, ledgerName), nil
}

// Put implements ledger.Store.
func (s *Store) Put(ctx context.Context, e ledger.Entry) error {
	return s.put(ctx, e, nil)
}

// PutIfAbsent implements ledger.Store using a conditional write.
func (s *Store) PutIfAbsent(ctx context.Context, e ledger.Entry) error {
	return s.put(ctx, e, aws.String("attribute_not_exists(#n)"))
}

func (s *Store) put(ctx context.Context, e ledger.Entry, cond *string) error {
	if e.Name == "" || e.Size < 0 {
		return fmt.Errorf("%w: name %q size %d", ledger.ErrInvalidEntry, e.Name, e.Size)
	}

	in := &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      s.marshal(e),
	}
	if cond != nil {
		in.ConditionExpression = cond
		in.ExpressionAttributeNames = map[string]string{"#n": attrName}
	}

	if _, err := s.client.PutItem(ctx, in); err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: %s", ledger.ErrConflict, e.Name)
		}
		return fmt.Errorf("failed to put ledger entry %s: %w", e.Name, err)
	}
	return nil
}

// Get implements ledger.Store.
func (s *Store) Get(ctx context.Context, name string) (ledger.Entry, error) {
	resp, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			attrLedger: &types.AttributeValueMemberS{Value: s.ledger},
			attrName:   &types.AttributeValueMemberS{Value: name},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("failed to get ledger entry %s: %w", name, err)
	}
	if len(resp.Item) == 0 {
		return ledger.Entry{}, fmt.Errorf("%w: %s", ledger.ErrNotFound, name)
	}
	return unmarshal(resp.Item)
}

// List implements ledger.Store. Entries come back in sort key order.
func (s *Store) List(ctx context.Context) ([]ledger.Entry, error) {
	var (
		out   []ledger.Entry
		start map[string]types.AttributeValue
	)
	for {
		resp, err := s.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.table),
			KeyConditionExpression: aws.String("#l = :ledger"),
			ExpressionAttributeNames: map[string]string{
				"#l": attrLedger,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":ledger": &types.AttributeValueMemberS{Value: s.ledger},
			},
			ExclusiveStartKey: start,
			ConsistentRead:    aws.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query ledger %s: %w", s.ledger, err)
		}
		for _, item := range resp.Items {
			e, err := unmarshal(item)
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		if len(resp.LastEvaluatedKey) == 0 {
			return out, nil
		}
		start = resp.LastEvaluatedKey
	}
}

func (s *Store) marshal(e ledger.Entry) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrLedger:     &types.AttributeValueMemberS{Value: s.ledger},
		attrName:       &types.AttributeValueMemberS{Value: e.Name},
		attrDigest:     &types.AttributeValueMemberS{Value: e.Digest.Hex()},
		attrSize:       &types.AttributeValueMemberN{Value: strconv.FormatInt(e.Size, 10)},
		attrSeed:       &types.AttributeValueMemberS{Value: e.Seed.String()},
		attrRecordedAt: &types.AttributeValueMemberS{Value: e.RecordedAt.UTC().Format(time.RFC3339Nano)},
	}
}

func unmarshal(item map[string]types.AttributeValue) (ledger.Entry, error) {
	str := func(key string) (string, error) {
		v, ok := item[key].(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("invalid %s attribute in DynamoDB", key)
		}
		return v.Value, nil
	}

	var e ledger.Entry
	name, err := str(attrName)
	if err != nil {
		return e, err
	}
	e.Name = name

	digest, err := str(attrDigest)
	if err != nil {
		return e, err
	}
	if e.Digest, err = seahash.ParseDigest(digest); err != nil {
		return e, err
	}

	size, ok := item[attrSize].(*types.AttributeValueMemberN)
	if !ok {
		return e, fmt.Errorf("invalid %s attribute in DynamoDB", attrSize)
	}
	if e.Size, err = strconv.ParseInt(size.Value, 10, 64); err != nil {
		return e, fmt.Errorf("failed to parse size: %w", err)
	}

	seed, err := str(attrSeed)
	if err != nil {
		return e, err
	}
	if e.Seed, err = seahash.ParseSeed(seed); err != nil {
		return e, err
	}

	recorded, err := str(attrRecordedAt)
	if err != nil {
		return e, err
	}
	if e.RecordedAt, err = time.Parse(time.RFC3339Nano, recorded); err != nil {
		return e, fmt.Errorf("failed to parse recorded_at: %w", err)
	}
	return e, nil
}
