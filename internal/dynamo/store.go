// Package dynamo implements the ledger storage contract on Amazon DynamoDB.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/service"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthIndex is the transactions table GSI keyed by yearMonth and date.
const MonthIndex = "yearMonth-date-index"

// Expressions sent to DynamoDB.
const (
	condIDAbsent  = "attribute_not_exists(id)"
	condIDExists  = "attribute_exists(id)"
	condPKAbsent  = "attribute_not_exists(pk)"
	condPKExists  = "attribute_exists(pk)"
	condLimitSet  = "attribute_exists(categoryLimits.#cat)"
	filterType    = "itemType = :type"
	keyMonth      = "yearMonth = :ym"
	updateTotal   = "SET itemType = :type, #y = :year, #m = :month, totalLimit = :limit, categoryLimits = if_not_exists(categoryLimits, :empty)"
	updateEnsure  = "SET itemType = :type, #y = :year, #m = :month, totalLimit = if_not_exists(totalLimit, :zero), categoryLimits = if_not_exists(categoryLimits, :empty)"
	updateLimit   = "SET categoryLimits.#cat = :limit"
	removeLimit   = "REMOVE categoryLimits.#cat"
	yearAttrName  = "year"
	monthAttrName = "month"
)

// API is the subset of the DynamoDB client the store uses.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// Config selects the region, tables, and an optional endpoint override
// (for DynamoDB Local).
type Config struct {
	Region            string
	TransactionsTable string
	MasterTable       string
	Endpoint          string
}

// Store implements service.Storage on two DynamoDB tables.
type Store struct {
	api               API
	transactionsTable string
	masterTable       string
}

var _ service.Storage = (*Store)(nil)

// New loads the default AWS configuration and builds a store.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.TransactionsTable == "" || cfg.MasterTable == "" {
		return nil, fmt.Errorf("%w: dynamodb table names", common.ErrMissingConfig)
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewWithAPI(client, cfg.TransactionsTable, cfg.MasterTable), nil
}

// NewWithAPI builds a store on an existing client.
func NewWithAPI(api API, transactionsTable, masterTable string) *Store {
	return &Store{
		api:               api,
		transactionsTable: transactionsTable,
		masterTable:       masterTable,
	}
}

// Migrate verifies that both tables exist. Tables are provisioned outside
// the application.
func (s *Store) Migrate(ctx context.Context) error {
	for _, table := range []string{s.transactionsTable, s.masterTable} {
		out, err := s.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
		if err != nil {
			return fmt.Errorf("failed to describe table %s: %w", table, err)
		}
		if out.Table != nil && out.Table.TableStatus != types.TableStatusActive {
			slog.Warn("dynamodb table is not active", "table", table, "status", out.Table.TableStatus)
		}
	}
	return nil
}

// Close is a no-op; the SDK client holds no resources that need releasing.
func (s *Store) Close() error {
	return nil
}

// --- transactions ---

// CreateTransaction stores a new transaction.
func (s *Store) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: nil transaction", model.ErrInvalidTransaction)
	}
	if err := txn.Validate(); err != nil {
		return err
	}
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = now
	}
	txn.UpdatedAt = now

	err := s.putItem(ctx, s.transactionsTable, transactionFromModel(txn), condIDAbsent)
	if isConditionFailed(err) {
		return fmt.Errorf("transaction %s: %w", txn.ID, common.ErrDuplicateEntry)
	}
	return err
}

// UpdateTransaction replaces an existing transaction.
func (s *Store) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: nil transaction", model.ErrInvalidTransaction)
	}
	if err := txn.Validate(); err != nil {
		return err
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: transaction id", common.ErrInvalidInput)
	}
	txn.UpdatedAt = time.Now().UTC()

	err := s.putItem(ctx, s.transactionsTable, transactionFromModel(txn), condIDExists)
	if isConditionFailed(err) {
		return fmt.Errorf("transaction %s: %w", txn.ID, common.ErrNotFound)
	}
	return err
}

// DeleteTransaction removes a transaction.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: transaction id", common.ErrInvalidInput)
	}
	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.transactionsTable),
		Key:                 stringKey("id", id),
		ConditionExpression: aws.String(condIDExists),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// GetTransactionByID returns a transaction, or nil if it does not exist.
func (s *Store) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.transactionsTable),
		Key:       stringKey("id", id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item transactionItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}
	txn, err := item.toModel()
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetTransactionsByPeriod queries the month index, newest first.
func (s *Store) GetTransactionsByPeriod(ctx context.Context, period model.Period) ([]model.Transaction, error) {
	return s.GetTransactions(ctx, service.TransactionFilter{Period: &period})
}

// GetTransactions returns transactions matching the filter, newest first.
// A period filter uses the month index; anything else scans the table.
func (s *Store) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	var (
		items []map[string]types.AttributeValue
		err   error
	)
	if filter.Period != nil {
		items, err = s.queryMonth(ctx, filter.Period.Key())
	} else {
		items, err = s.scanAll(ctx, s.transactionsTable, nil)
	}
	if err != nil {
		return nil, err
	}

	var dbItems []transactionItem
	if err := attributevalue.UnmarshalListOfMaps(items, &dbItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}

	transactions := make([]model.Transaction, 0, len(dbItems))
	for i := range dbItems {
		txn, err := dbItems[i].toModel()
		if err != nil {
			return nil, err
		}
		if filter.Kind != "" && txn.Kind != filter.Kind {
			continue
		}
		if filter.CategoryID != "" && txn.CategoryID != filter.CategoryID {
			continue
		}
		transactions = append(transactions, txn)
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		a, b := transactions[i], transactions[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	return paginate(transactions, filter.Offset, filter.Limit), nil
}

func (s *Store) queryMonth(ctx context.Context, yearMonth string) ([]map[string]types.AttributeValue, error) {
	var (
		all     []map[string]types.AttributeValue
		lastKey map[string]types.AttributeValue
	)
	for {
		out, err := s.api.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.transactionsTable),
			IndexName:              aws.String(MonthIndex),
			KeyConditionExpression: aws.String(keyMonth),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":ym": &types.AttributeValueMemberS{Value: yearMonth},
			},
			ScanIndexForward:  aws.Bool(false),
			ExclusiveStartKey: lastKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query transactions for %s: %w", yearMonth, err)
		}
		all = append(all, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return all, nil
		}
		lastKey = out.LastEvaluatedKey
	}
}

// --- categories ---

// CreateCategory stores a new category.
func (s *Store) CreateCategory(ctx context.Context, category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: nil category", model.ErrInvalidCategory)
	}
	if err := category.Validate(); err != nil {
		return err
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}

	err := s.putItem(ctx, s.masterTable, categoryFromModel(category), condPKAbsent)
	if isConditionFailed(err) {
		return fmt.Errorf("category %s: %w", category.ID, common.ErrDuplicateEntry)
	}
	return err
}

// UpdateCategory replaces an existing category, keeping its creation time.
func (s *Store) UpdateCategory(ctx context.Context, category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: nil category", model.ErrInvalidCategory)
	}
	if err := category.Validate(); err != nil {
		return err
	}

	if category.CreatedAt.IsZero() {
		existing, err := s.GetCategoryByID(ctx, category.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("category %s: %w", category.ID, common.ErrNotFound)
		}
		category.CreatedAt = existing.CreatedAt
	}

	err := s.putItem(ctx, s.masterTable, categoryFromModel(category), condPKExists)
	if isConditionFailed(err) {
		return fmt.Errorf("category %s: %w", category.ID, common.ErrNotFound)
	}
	return err
}

// DeleteCategory removes a category. Transactions keep the dangling id.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	_, err := s.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(s.masterTable),
		Key:                 stringKey("pk", categoryKey(id)),
		ConditionExpression: aws.String(condPKExists),
	})
	if isConditionFailed(err) {
		return fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// GetCategoryByID returns a category, or nil if it does not exist.
func (s *Store) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.masterTable),
		Key:       stringKey("pk", categoryKey(id)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item categoryItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal category: %w", err)
	}
	cat := item.toModel()
	return &cat, nil
}

// GetCategories returns all categories ordered by kind and name.
func (s *Store) GetCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.allCategories(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].Kind != categories[j].Kind {
			return categories[i].Kind < categories[j].Kind
		}
		return lessByName(categories[i], categories[j])
	})
	return categories, nil
}

// GetCategoriesByKind returns the categories of one kind ordered by name.
func (s *Store) GetCategoriesByKind(ctx context.Context, kind model.Kind) ([]model.Category, error) {
	return s.selectCategories(ctx, func(c model.Category) bool { return c.Kind == kind })
}

// SearchCategories returns categories whose name contains query, case-insensitively.
func (s *Store) SearchCategories(ctx context.Context, query string) ([]model.Category, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	return s.selectCategories(ctx, func(c model.Category) bool {
		return strings.Contains(strings.ToLower(c.Name), needle)
	})
}

// GetCategoryByName returns the oldest category with a case-insensitively
// equal name, or nil.
func (s *Store) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	matches, err := s.selectCategories(ctx, func(c model.Category) bool {
		return strings.EqualFold(c.Name, name)
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.Before(matches[j].CreatedAt)
		}
		return matches[i].ID < matches[j].ID
	})
	return &matches[0], nil
}

func (s *Store) selectCategories(ctx context.Context, keep func(model.Category) bool) ([]model.Category, error) {
	all, err := s.allCategories(ctx)
	if err != nil {
		return nil, err
	}
	selected := make([]model.Category, 0, len(all))
	for _, c := range all {
		if keep(c) {
			selected = append(selected, c)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool { return lessByName(selected[i], selected[j]) })
	return selected, nil
}

func (s *Store) allCategories(ctx context.Context) ([]model.Category, error) {
	items, err := s.scanAll(ctx, s.masterTable, typeFilter(typeCategory))
	if err != nil {
		return nil, err
	}
	var dbItems []categoryItem
	if err := attributevalue.UnmarshalListOfMaps(items, &dbItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}
	categories := make([]model.Category, len(dbItems))
	for i := range dbItems {
		categories[i] = dbItems[i].toModel()
	}
	return categories, nil
}

// --- budgets ---

// GetBudget returns the budget for a month, or nil if none was set.
func (s *Store) GetBudget(ctx context.Context, period model.Period) (*model.BudgetLimit, error) {
	out, err := s.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.masterTable),
		Key:       stringKey("pk", budgetKey(period)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}

	var item budgetItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal budget: %w", err)
	}
	return item.toModel()
}

// GetBudgets returns every stored budget, most recent month first.
func (s *Store) GetBudgets(ctx context.Context) ([]model.BudgetLimit, error) {
	items, err := s.scanAll(ctx, s.masterTable, typeFilter(typeBudget))
	if err != nil {
		return nil, err
	}
	var dbItems []budgetItem
	if err := attributevalue.UnmarshalListOfMaps(items, &dbItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal budgets: %w", err)
	}

	budgets := make([]model.BudgetLimit, 0, len(dbItems))
	for i := range dbItems {
		b, err := dbItems[i].toModel()
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	sort.Slice(budgets, func(i, j int) bool {
		if budgets[i].Year != budgets[j].Year {
			return budgets[i].Year > budgets[j].Year
		}
		return budgets[i].Month > budgets[j].Month
	})
	return budgets, nil
}

// SetTotalLimit sets the overall limit for a month, creating the budget if needed.
func (s *Store) SetTotalLimit(ctx context.Context, period model.Period, limit decimal.Decimal) error {
	if err := validateLimit(period, limit); err != nil {
		return err
	}

	values := budgetValues(period)
	values[":limit"] = &types.AttributeValueMemberS{Value: limit.String()}

	_, err := s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.masterTable),
		Key:                       stringKey("pk", budgetKey(period)),
		UpdateExpression:          aws.String(updateTotal),
		ExpressionAttributeNames:  budgetNames(),
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return fmt.Errorf("failed to set total limit: %w", err)
	}
	return nil
}

// SetCategoryLimit sets one category's limit, creating the budget if needed.
func (s *Store) SetCategoryLimit(ctx context.Context, period model.Period, categoryID string, limit decimal.Decimal) error {
	if err := validateLimit(period, limit); err != nil {
		return err
	}
	if strings.TrimSpace(categoryID) == "" {
		return fmt.Errorf("%w: category id", common.ErrInvalidInput)
	}

	values := budgetValues(period)
	values[":zero"] = &types.AttributeValueMemberS{Value: "0"}

	// The map must exist before a nested path can be written, and one
	// update expression cannot touch both.
	_, err := s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.masterTable),
		Key:                       stringKey("pk", budgetKey(period)),
		UpdateExpression:          aws.String(updateEnsure),
		ExpressionAttributeNames:  budgetNames(),
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}

	_, err = s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.masterTable),
		Key:                      stringKey("pk", budgetKey(period)),
		UpdateExpression:         aws.String(updateLimit),
		ExpressionAttributeNames: map[string]string{"#cat": categoryID},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":limit": &types.AttributeValueMemberS{Value: limit.String()},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to set category limit: %w", err)
	}
	return nil
}

// RemoveCategoryLimit deletes one category's limit for a month.
func (s *Store) RemoveCategoryLimit(ctx context.Context, period model.Period, categoryID string) error {
	if strings.TrimSpace(categoryID) == "" {
		return fmt.Errorf("%w: category id", common.ErrInvalidInput)
	}
	_, err := s.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.masterTable),
		Key:                      stringKey("pk", budgetKey(period)),
		UpdateExpression:         aws.String(removeLimit),
		ConditionExpression:      aws.String(condLimitSet),
		ExpressionAttributeNames: map[string]string{"#cat": categoryID},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("category limit %s/%s: %w", period.Key(), categoryID, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to remove category limit: %w", err)
	}
	return nil
}

// --- helpers ---

func (s *Store) putItem(ctx context.Context, table string, item any, condition string) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	_, err = s.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(table),
		Item:                av,
		ConditionExpression: aws.String(condition),
	})
	if err != nil && !isConditionFailed(err) {
		return fmt.Errorf("failed to put item in %s: %w", table, err)
	}
	return err
}

type scanFilter struct {
	values     map[string]types.AttributeValue
	expression string
}

func typeFilter(itemType string) *scanFilter {
	return &scanFilter{
		expression: filterType,
		values: map[string]types.AttributeValue{
			":type": &types.AttributeValueMemberS{Value: itemType},
		},
	}
}

func (s *Store) scanAll(ctx context.Context, table string, filter *scanFilter) ([]map[string]types.AttributeValue, error) {
	var (
		all     []map[string]types.AttributeValue
		lastKey map[string]types.AttributeValue
	)
	for {
		input := &dynamodb.ScanInput{
			TableName:         aws.String(table),
			ExclusiveStartKey: lastKey,
		}
		if filter != nil {
			input.FilterExpression = aws.String(filter.expression)
			input.ExpressionAttributeValues = filter.values
		}

		out, err := s.api.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		all = append(all, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return all, nil
		}
		lastKey = out.LastEvaluatedKey
	}
}

func stringKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

func budgetNames() map[string]string {
	return map[string]string{"#y": yearAttrName, "#m": monthAttrName}
}

func budgetValues(period model.Period) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		":type":  &types.AttributeValueMemberS{Value: typeBudget},
		":year":  &types.AttributeValueMemberN{Value: fmt.Sprint(period.Year)},
		":month": &types.AttributeValueMemberN{Value: fmt.Sprint(period.Month)},
		":empty": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{}},
	}
}

func validateLimit(period model.Period, limit decimal.Decimal) error {
	if _, err := model.NewPeriod(period.Year, period.Month); err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidBudget, err)
	}
	if limit.IsNegative() {
		return fmt.Errorf("%w: limit must not be negative", model.ErrInvalidBudget)
	}
	return nil
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return err != nil && errors.As(err, &ccf)
}

func lessByName(a, b model.Category) bool {
	an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
	if an != bn {
		return an < bn
	}
	return a.ID < b.ID
}

func paginate(txns []model.Transaction, offset, limit int) []model.Transaction {
	if offset > 0 {
		if offset >= len(txns) {
			return []model.Transaction{}
		}
		txns = txns[offset:]
	}
	if limit > 0 && limit < len(txns) {
		txns = txns[:limit]
	}
	return txns
}
