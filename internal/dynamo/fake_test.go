package dynamo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type item = map[string]types.AttributeValue

// fakeDynamo is an in-memory stand-in for the handful of expressions the
// store sends. It is not a general DynamoDB emulator.
type fakeDynamo struct {
	tables   map[string]map[string]item
	keyAttr  map[string]string
	pageSize int
	mu       sync.Mutex
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{
		tables: map[string]map[string]item{
			"txns":   {},
			"master": {},
		},
		keyAttr: map[string]string{
			"txns":   "id",
			"master": "pk",
		},
	}
}

func newTestStore() (*Store, *fakeDynamo) {
	fake := newFakeDynamo()
	return NewWithAPI(fake, "txns", "master"), fake
}

func conditionFailed() error {
	return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
}

func str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func clone(in item) item {
	out := make(item, len(in))
	for k, v := range in {
		if m, ok := v.(*types.AttributeValueMemberM); ok {
			out[k] = &types.AttributeValueMemberM{Value: clone(m.Value)}
			continue
		}
		out[k] = v
	}
	return out
}

func (f *fakeDynamo) table(name string) (map[string]item, string, error) {
	t, ok := f.tables[name]
	if !ok {
		return nil, "", &types.ResourceNotFoundException{Message: aws.String("table not found: " + name)}
	}
	return t, f.keyAttr[name], nil
}

func checkCondition(expr *string, exists bool) error {
	if expr == nil {
		return nil
	}
	switch *expr {
	case condIDAbsent, condPKAbsent:
		if exists {
			return conditionFailed()
		}
	case condIDExists, condPKExists:
		if !exists {
			return conditionFailed()
		}
	}
	return nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, keyName, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}
	key := str(in.Item[keyName])
	_, exists := t[key]
	if err := checkCondition(in.ConditionExpression, exists); err != nil {
		return nil, err
	}
	t[key] = clone(in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, keyName, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}
	got, ok := t[str(in.Key[keyName])]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: clone(got)}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, keyName, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}
	key := str(in.Key[keyName])
	_, exists := t[key]
	if err := checkCondition(in.ConditionExpression, exists); err != nil {
		return nil, err
	}
	delete(t, key)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, keyName, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}
	key := str(in.Key[keyName])
	current, exists := t[key]
	values := in.ExpressionAttributeValues
	names := in.ExpressionAttributeNames

	switch *in.UpdateExpression {
	case updateTotal, updateEnsure:
		if !exists {
			current = item{keyName: &types.AttributeValueMemberS{Value: key}}
		}
		current["itemType"] = values[":type"]
		current[names["#y"]] = values[":year"]
		current[names["#m"]] = values[":month"]
		if *in.UpdateExpression == updateTotal {
			current["totalLimit"] = values[":limit"]
		} else if _, ok := current["totalLimit"]; !ok {
			current["totalLimit"] = values[":zero"]
		}
		if _, ok := current["categoryLimits"]; !ok {
			current["categoryLimits"] = &types.AttributeValueMemberM{Value: item{}}
		}
		t[key] = current

	case updateLimit:
		limits, ok := current["categoryLimits"].(*types.AttributeValueMemberM)
		if !exists || !ok {
			return nil, fmt.Errorf("ValidationException: the document path provided in the update expression is invalid for update")
		}
		limits.Value[names["#cat"]] = values[":limit"]

	case removeLimit:
		limits, ok := current["categoryLimits"].(*types.AttributeValueMemberM)
		if !exists || !ok {
			return nil, conditionFailed()
		}
		if _, set := limits.Value[names["#cat"]]; !set {
			return nil, conditionFailed()
		}
		delete(limits.Value, names["#cat"])

	default:
		return nil, fmt.Errorf("fake: unsupported update expression %q", *in.UpdateExpression)
	}

	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, _, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}
	if aws.ToString(in.IndexName) != MonthIndex || aws.ToString(in.KeyConditionExpression) != keyMonth {
		return nil, fmt.Errorf("fake: unsupported query")
	}

	ym := str(in.ExpressionAttributeValues[":ym"])
	var out []item
	for _, it := range t {
		if str(it["yearMonth"]) == ym {
			out = append(out, clone(it))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if aws.ToBool(in.ScanIndexForward) {
			return str(out[i]["date"]) < str(out[j]["date"])
		}
		return str(out[i]["date"]) > str(out[j]["date"])
	})
	return &dynamodb.QueryOutput{Items: out}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, keyName, err := f.table(*in.TableName)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := str(in.ExclusiveStartKey[keyName])
		start = sort.SearchStrings(keys, after)
		if start < len(keys) && keys[start] == after {
			start++
		}
	}
	end := len(keys)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		it := t[k]
		if aws.ToString(in.FilterExpression) == filterType &&
			str(it["itemType"]) != str(in.ExpressionAttributeValues[":type"]) {
			continue
		}
		out.Items = append(out.Items, clone(it))
	}
	if end < len(keys) {
		out.LastEvaluatedKey = item{keyName: &types.AttributeValueMemberS{Value: keys[end-1]}}
	}
	return out, nil
}

func (f *fakeDynamo) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, _, err := f.table(*in.TableName); err != nil {
		return nil, err
	}
	return &dynamodb.DescribeTableOutput{
		Table: &types.TableDescription{
			TableName:   in.TableName,
			TableStatus: types.TableStatusActive,
		},
	}, nil
}
