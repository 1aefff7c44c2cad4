package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamoDB is an in-memory DynamoDBClient that understands the exact
// expressions DynamoDBStore sends. Scan returns keys in reverse order and in
// small pages so callers must sort and follow LastEvaluatedKey.
type fakeDynamoDB struct {
	mu            sync.Mutex
	items         map[string]map[string]types.AttributeValue
	scanPageSize  int
	scanCalls     int
	updateCalls   int
	putItemsCalls int
}

var _ DynamoDBClient = (*fakeDynamoDB)(nil)

func newFakeDynamoDB() *fakeDynamoDB {
	return &fakeDynamoDB{
		items:        make(map[string]map[string]types.AttributeValue),
		scanPageSize: 3,
	}
}

func pkOf(item map[string]types.AttributeValue) string {
	return item[AttrPK].(*types.AttributeValueMemberS).Value
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	if item == nil {
		return nil
	}
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (f *fakeDynamoDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.putItemsCalls++
	f.items[pkOf(params.Item)] = copyItem(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamoDB) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return &dynamodb.GetItemOutput{Item: copyItem(f.items[pkOf(params.Key)])}, nil
}

func (f *fakeDynamoDB) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateCalls++
	pk := pkOf(params.Key)
	item, exists := f.items[pk]

	if cond := aws.ToString(params.ConditionExpression); cond != "" {
		if cond != "attribute_exists(#pk)" {
			return nil, fmt.Errorf("fake: unsupported condition %q", cond)
		}
		if !exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}

	expr, ok := strings.CutPrefix(aws.ToString(params.UpdateExpression), "SET ")
	if !ok {
		return nil, fmt.Errorf("fake: unsupported update expression %q", aws.ToString(params.UpdateExpression))
	}

	if !exists {
		item = copyItem(params.Key)
	}
	updated := make(map[string]types.AttributeValue)
	for _, assignment := range strings.Split(expr, ",") {
		lhs, rhs, ok := strings.Cut(strings.TrimSpace(assignment), " = ")
		if !ok {
			return nil, fmt.Errorf("fake: malformed assignment %q", assignment)
		}
		attr := params.ExpressionAttributeNames[lhs]
		value := params.ExpressionAttributeValues[rhs]
		item[attr] = value
		updated[attr] = value
	}
	f.items[pk] = item

	out := &dynamodb.UpdateItemOutput{}
	if params.ReturnValues == types.ReturnValueUpdatedNew {
		out.Attributes = updated
	}
	return out, nil
}

func (f *fakeDynamoDB) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pk := pkOf(params.Key)
	old := f.items[pk]
	delete(f.items, pk)

	out := &dynamodb.DeleteItemOutput{}
	if params.ReturnValues == types.ReturnValueAllOld {
		out.Attributes = old
	}
	return out, nil
}

func (f *fakeDynamoDB) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.scanCalls++
	prefix := params.ExpressionAttributeValues[":prefix"].(*types.AttributeValueMemberS).Value

	var keys []string
	for pk := range f.items {
		if strings.HasPrefix(pk, prefix) {
			keys = append(keys, pk)
		}
	}
	// Deliberately not the order callers need.
	slices.Sort(keys)
	slices.Reverse(keys)

	start := 0
	if params.ExclusiveStartKey != nil {
		start = slices.Index(keys, pkOf(params.ExclusiveStartKey)) + 1
	}
	end := min(start+f.scanPageSize, len(keys))

	out := &dynamodb.ScanOutput{}
	for _, pk := range keys[start:end] {
		out.Items = append(out.Items, copyItem(f.items[pk]))
	}
	out.Count = int32(len(out.Items))
	if end < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			AttrPK: &types.AttributeValueMemberS{Value: keys[end-1]},
		}
	}
	return out, nil
}
