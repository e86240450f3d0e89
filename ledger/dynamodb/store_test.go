package dynamodb

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/seahash"
	"github.com/hupe1980/seahash/ledger"
)

// mockDDBClient is an in-memory DynamoDB mock keyed by ledger and name.
// Query returns pages of pageSize items when pageSize > 0.
type mockDDBClient struct {
	mu       sync.RWMutex
	items    map[string]map[string]types.AttributeValue
	pageSize int
	err      error
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{items: make(map[string]map[string]types.AttributeValue)}
}

func key(item map[string]types.AttributeValue) string {
	return item[attrLedger].(*types.AttributeValueMemberS).Value + "\x00" +
		item[attrName].(*types.AttributeValueMemberS).Value
}

func (m *mockDDBClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}

	k := key(params.Item)
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(#n)" {
		if _, exists := m.items[k]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}
	m.items[k] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return &dynamodb.GetItemOutput{Item: m.items[key(params.Key)]}, nil
}

func (m *mockDDBClient) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}

	want := params.ExpressionAttributeValues[":ledger"].(*types.AttributeValueMemberS).Value
	var keys []string
	for k, item := range m.items {
		if item[attrLedger].(*types.AttributeValueMemberS).Value == want {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	if params.ExclusiveStartKey != nil {
		after := key(params.ExclusiveStartKey)
		i := sort.SearchStrings(keys, after)
		if i < len(keys) && keys[i] == after {
			i++
		}
		keys = keys[i:]
	}

	out := &dynamodb.QueryOutput{}
	if m.pageSize > 0 && len(keys) > m.pageSize {
		keys = keys[:m.pageSize]
		last := m.items[keys[len(keys)-1]]
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			attrLedger: last[attrLedger],
			attrName:   last[attrName],
		}
	}
	for _, k := range keys {
		out.Items = append(out.Items, m.items[k])
	}
	return out, nil
}

func entry(name, content string, seed seahash.Seed) ledger.Entry {
	return ledger.Entry{
		Name:       name,
		Digest:     seahash.Digest(seahash.HashSeeded([]byte(content), seed.A, seed.B, seed.C, seed.D)),
		Size:       int64(len(content)),
		Seed:       seed,
		RecordedAt: time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC),
	}
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMockDDBClient(), "table", "main")

	seed := seahash.Seed{A: 1, B: 2, C: 3, D: 4}
	want := entry("hello", "hello world", seed)
	require.NoError(t, s.Put(ctx, want))

	got, err := s.Get(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, seahash.Digest(16851795577581991309), got.Digest)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	require.NoError(t, ledger.Verify(ctx, s, "hello", want.Digest))
	var mismatch *ledger.MismatchError
	assert.ErrorAs(t, ledger.Verify(ctx, s, "hello", want.Digest+1), &mismatch)
}

func TestStore_PutIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMockDDBClient(), "table", "main")

	require.NoError(t, s.PutIfAbsent(ctx, entry("a", "abc", seahash.DefaultSeed)))
	assert.ErrorIs(t, s.PutIfAbsent(ctx, entry("a", "xyz", seahash.DefaultSeed)), ledger.ErrConflict)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "80796d63c232ed86", got.Digest.Hex())
}

func TestStore_ListPaginatesAndIsolatesLedgers(t *testing.T) {
	ctx := context.Background()
	client := newMockDDBClient()
	client.pageSize = 2

	primary := NewStore(client, "table", "main")
	other := NewStore(client, "table", "other")

	for _, name := range []string{"e", "a", "c", "b", "d"} {
		require.NoError(t, primary.Put(ctx, entry(name, name, seahash.DefaultSeed)))
	}
	require.NoError(t, other.Put(ctx, entry("z", "z", seahash.DefaultSeed)))

	list, err := primary.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		assert.Equal(t, name, list[i].Name)
	}

	list, err = other.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "z", list[0].Name)
}

func TestStore_InvalidEntry(t *testing.T) {
	s := NewStore(newMockDDBClient(), "table", "main")
	assert.ErrorIs(t, s.Put(context.Background(), ledger.Entry{}), ledger.ErrInvalidEntry)
}

func TestStore_ClientError(t *testing.T) {
	ctx := context.Background()
	client := newMockDDBClient()
	client.err = errors.New("throttled")
	s := NewStore(client, "table", "main")

	assert.ErrorIs(t, s.Put(ctx, entry("a", "abc", seahash.DefaultSeed)), client.err)
	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, client.err)
	_, err = s.List(ctx)
	assert.ErrorIs(t, err, client.err)
}

func TestUnmarshal_InvalidItem(t *testing.T) {
	s := NewStore(newMockDDBClient(), "table", "main")
	good := s.marshal(entry("a", "abc", seahash.DefaultSeed))

	for _, attr := range []string{attrName, attrDigest, attrSize, attrSeed, attrRecordedAt} {
		t.Run(attr, func(t *testing.T) {
			item := make(map[string]types.AttributeValue, len(good))
			for k, v := range good {
				item[k] = v
			}
			item[attr] = &types.AttributeValueMemberBOOL{Value: true}
			_, err := unmarshal(item)
			assert.Error(t, err)
		})
	}
}
