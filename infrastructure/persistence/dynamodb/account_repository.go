// Package dynamodb implements the persistence ports on a single DynamoDB
// table. Accounts and turns share the table; every item hangs off an
// ACCOUNT# partition key and a GSI provides direct turn lookups by id.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthchat-backend/application/ports"
	"healthchat-backend/domain/account"
	pkgerrors "healthchat-backend/pkg/errors"
	"healthchat-backend/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// AccountRepository implements ports.AccountRepository using DynamoDB
type AccountRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *AccountRepository {
	return &AccountRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

// accountItem represents the DynamoDB item structure for an account
type accountItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	EntityType   string `dynamodbav:"EntityType"`
	Name         string `dynamodbav:"Name"`
	Email        string `dynamodbav:"Email"`
	PasswordHash string `dynamodbav:"PasswordHash"`
	Role         string `dynamodbav:"Role"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
}

func accountPK(email string) string {
	return fmt.Sprintf("ACCOUNT#%s", email)
}

const profileSK = "PROFILE"

// Create stores a new account. The conditional put enforces email
// uniqueness at the storage layer.
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	item := accountItem{
		PK:           accountPK(acc.Email),
		SK:           profileSK,
		EntityType:   "ACCOUNT",
		Name:         acc.Name,
		Email:        acc.Email,
		PasswordHash: acc.PasswordHash,
		Role:         acc.Role,
		CreatedAt:    acc.CreatedAt.Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewStorageError("marshal account", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return pkgerrors.NewConflictError("email already registered")
		}
		r.logger.Error("failed to save account",
			zap.String("email", acc.Email),
			zap.Error(err),
		)
		return pkgerrors.NewStorageError("create account", err)
	}

	r.logger.Info("account saved", zap.String("email", acc.Email))
	return nil
}

// GetByEmail loads an account by its email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: accountPK(email)},
			"SK": &types.AttributeValueMemberS{Value: profileSK},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewStorageError("get account", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("account")
	}

	var item accountItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewStorageError("unmarshal account", err)
	}

	createdAt, err := utils.ParseRFC3339(item.CreatedAt)
	if err != nil {
		createdAt = time.Time{}
	}

	return &account.Account{
		Name:         item.Name,
		Email:        item.Email,
		PasswordHash: item.PasswordHash,
		Role:         item.Role,
		CreatedAt:    createdAt,
	}, nil
}
