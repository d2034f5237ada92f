package dynamodb

import (
	"context"
	"fmt"
	"time"

	"healthchat-backend/application/ports"
	"healthchat-backend/domain/chat"
	pkgerrors "healthchat-backend/pkg/errors"
	"healthchat-backend/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// TurnRepository implements ports.TurnRepository using DynamoDB.
//
// One turn is one item: PK=ACCOUNT#<email>, SK=TURN#<timestamp>#<id>.
// The sort key embeds a nanosecond timestamp so a plain Query returns the
// history oldest first, and GSI1 (GSI1PK=TURN#<id>) serves direct lookups
// for deletion. History is derived from the partition key alone; creating a
// turn is a single PutItem, so a turn can never exist half-linked.
type TurnRepository struct {
	client    *dynamodb.Client
	tableName string
	indexName string
	logger    *zap.Logger
}

// NewTurnRepository creates a new TurnRepository
func NewTurnRepository(client *dynamodb.Client, tableName, indexName string, logger *zap.Logger) *TurnRepository {
	return &TurnRepository{
		client:    client,
		tableName: tableName,
		indexName: indexName,
		logger:    logger,
	}
}

var _ ports.TurnRepository = (*TurnRepository)(nil)

// turnItem represents the DynamoDB item structure for a turn
type turnItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	EntityType string `dynamodbav:"EntityType"`
	TurnID     string `dynamodbav:"TurnID"`
	AccountID  string `dynamodbav:"AccountID"`
	Question   string `dynamodbav:"Question"`
	Answer     string `dynamodbav:"Answer"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func turnSK(createdAt time.Time, turnID string) string {
	return fmt.Sprintf("TURN#%s#%s", utils.FormatSortable(createdAt), turnID)
}

func turnGSI1PK(turnID string) string {
	return fmt.Sprintf("TURN#%s", turnID)
}

// ListByAccount returns the account's turns oldest first
func (r *TurnRepository) ListByAccount(ctx context.Context, accountID string) ([]*chat.Turn, error) {
	// The account must exist; an unknown account is NotFound, not an
	// empty history.
	if err := r.accountExists(ctx, accountID); err != nil {
		return nil, err
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: accountPK(accountID)},
			":sk": &types.AttributeValueMemberS{Value: "TURN#"},
		},
		ScanIndexForward: aws.Bool(true), // sort key order = chronological
	}

	turns := make([]*chat.Turn, 0)
	paginator := dynamodb.NewQueryPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, pkgerrors.NewStorageError("list turns", err)
		}
		for _, raw := range page.Items {
			var item turnItem
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				r.logger.Warn("failed to unmarshal turn item", zap.Error(err))
				continue
			}
			turns = append(turns, item.toDomain())
		}
	}

	return turns, nil
}

// Create persists a completed turn as a single item
func (r *TurnRepository) Create(ctx context.Context, turn *chat.Turn) error {
	item := turnItem{
		PK:         accountPK(turn.AccountID),
		SK:         turnSK(turn.CreatedAt, turn.ID),
		GSI1PK:     turnGSI1PK(turn.ID),
		GSI1SK:     accountPK(turn.AccountID),
		EntityType: "TURN",
		TurnID:     turn.ID,
		AccountID:  turn.AccountID,
		Question:   turn.Question,
		Answer:     turn.Answer,
		CreatedAt:  turn.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewStorageError("marshal turn", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("failed to save turn",
			zap.String("accountID", turn.AccountID),
			zap.String("turnID", turn.ID),
			zap.Error(err),
		)
		return pkgerrors.NewStorageError("create turn", err)
	}

	return nil
}

// Delete removes a turn after verifying it belongs to accountID
func (r *TurnRepository) Delete(ctx context.Context, accountID, turnID string) error {
	item, err := r.getByTurnID(ctx, turnID)
	if err != nil {
		return err
	}

	// Ownership is checked against the stored item, never assumed from
	// the id alone.
	if item.AccountID != accountID {
		return pkgerrors.NewNotFoundError("turn")
	}

	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: item.PK},
			"SK": &types.AttributeValueMemberS{Value: item.SK},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		return pkgerrors.NewStorageError("delete turn", err)
	}

	r.logger.Info("turn deleted",
		zap.String("accountID", accountID),
		zap.String("turnID", turnID),
	)
	return nil
}

// getByTurnID looks up a turn directly through GSI1
func (r *TurnRepository) getByTurnID(ctx context.Context, turnID string) (*turnItem, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(turnGSI1PK(turnID)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewStorageError("build turn query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(r.indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewStorageError("query turn", err)
	}
	if len(result.Items) == 0 {
		return nil, pkgerrors.NewNotFoundError("turn")
	}

	var item turnItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, pkgerrors.NewStorageError("unmarshal turn", err)
	}
	return &item, nil
}

// accountExists checks the account profile item
func (r *TurnRepository) accountExists(ctx context.Context, accountID string) error {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: accountPK(accountID)},
			"SK": &types.AttributeValueMemberS{Value: profileSK},
		},
		ProjectionExpression: aws.String("PK"),
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return pkgerrors.NewStorageError("get account", err)
	}
	if result.Item == nil {
		return pkgerrors.NewNotFoundError("account")
	}
	return nil
}

// toDomain converts a stored item back to the domain entity
func (i *turnItem) toDomain() *chat.Turn {
	createdAt, err := utils.ParseRFC3339(i.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}
	return &chat.Turn{
		ID:        i.TurnID,
		AccountID: i.AccountID,
		Question:  i.Question,
		Answer:    i.Answer,
		CreatedAt: createdAt,
	}
}
