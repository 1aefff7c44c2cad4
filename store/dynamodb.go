package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/sicko7947/contactbook"
)

// contactRecord is the stored item shape. The name lives only in the key.
type contactRecord struct {
	Key     string `dynamodbav:"PK"`
	PhoneNo string `dynamodbav:"phone_no"`
	Email   string `dynamodbav:"email"`
}

// DynamoDBStore implements contactbook.Repository using AWS DynamoDB as a
// hash store. Each contact is one item under PK=contacts:{name}.
//
// The table has no ordering over partition keys, so every listing operation
// scans the namespace, rebuilds the contacts and sorts them by name first.
type DynamoDBStore struct {
	client    DynamoDBClient
	tableName string
	opts      options
}

// NewDynamoDBStore creates a new DynamoDB-backed contact store
func NewDynamoDBStore(client DynamoDBClient, tableName string, opts ...Option) contactbook.Repository {
	return &DynamoDBStore{
		client:    client,
		tableName: tableName,
		opts:      applyOptions(string(contactbook.BackendDynamoDB), opts),
	}
}

func keyAttr(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrPK: &types.AttributeValueMemberS{Value: key},
	}
}

// Mutations

func (s *DynamoDBStore) Add(ctx context.Context, name, phoneRaw, email string) error {
	contact, err := contactbook.ValidContact(name, phoneRaw, email)
	if err != nil {
		return err
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.tableName),
		Key:              keyAttr(contactKey(contact.Name)),
		UpdateExpression: aws.String("SET #phone_no = :phone_no, #email = :email"),
		ExpressionAttributeNames: map[string]string{
			"#phone_no": AttrPhoneNo,
			"#email":    AttrEmail,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":phone_no": &types.AttributeValueMemberS{Value: contact.PhoneString()},
			":email":    &types.AttributeValueMemberS{Value: contact.Email},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		contactbook.LogPersistenceError(s.opts.logger, "add", name, err)
		return fmt.Errorf("failed to add contact: %w", err)
	}

	if err := s.checkFieldCount("add", name, 2, len(result.Attributes)); err != nil {
		return err
	}

	contactbook.LogContactAdded(s.opts.logger, name)
	return nil
}

func (s *DynamoDBStore) UpdateEmail(ctx context.Context, name, newEmail string) (bool, error) {
	email, err := contactbook.ValidEmail(newEmail)
	if err != nil {
		return false, err
	}
	return s.updateField(ctx, name, AttrEmail, email)
}

func (s *DynamoDBStore) UpdatePhone(ctx context.Context, name, newPhoneRaw string) (bool, error) {
	phoneNo, err := contactbook.ValidPhone(newPhoneRaw)
	if err != nil {
		return false, err
	}
	return s.updateField(ctx, name, AttrPhoneNo, strconv.FormatUint(phoneNo, 10))
}

// updateField sets one attribute of an existing contact. A missing key
// reports false without writing anything.
func (s *DynamoDBStore) updateField(ctx context.Context, name, attr, value string) (bool, error) {
	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.tableName),
		Key:                 keyAttr(contactKey(name)),
		UpdateExpression:    aws.String("SET #field = :value"),
		ConditionExpression: aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{
			"#pk":    AttrPK,
			"#field": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":value": &types.AttributeValueMemberS{Value: value},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			contactbook.LogContactUpdated(s.opts.logger, name, attr, false)
			return false, nil
		}
		contactbook.LogPersistenceError(s.opts.logger, "update_"+attr, name, err)
		return false, fmt.Errorf("failed to update contact %s: %w", attr, err)
	}

	if err := s.checkFieldCount("update_"+attr, name, 1, len(result.Attributes)); err != nil {
		return false, err
	}

	contactbook.LogContactUpdated(s.opts.logger, name, attr, true)
	return true, nil
}

func (s *DynamoDBStore) Delete(ctx context.Context, name string) (*contactbook.Contact, error) {
	key := contactKey(name)

	result, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(s.tableName),
		Key:          keyAttr(key),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		contactbook.LogPersistenceError(s.opts.logger, "delete", name, err)
		return nil, fmt.Errorf("failed to delete contact: %w", err)
	}

	if len(result.Attributes) == 0 {
		contactbook.LogContactDeleted(s.opts.logger, name, false)
		return nil, nil
	}

	contact, err := decodeContact(result.Attributes)
	if err != nil {
		return nil, err
	}
	if contact.Name != name {
		contactbook.LogConsistencyError(s.opts.logger, "delete", name, 1, 0)
		return nil, contactbook.NewConsistencyError(name,
			fmt.Sprintf("delete returned item for %q", contact.Name))
	}

	contactbook.LogContactDeleted(s.opts.logger, name, true)
	return contact, nil
}

// Queries

func (s *DynamoDBStore) Get(ctx context.Context, name string) (*contactbook.Contact, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            keyAttr(contactKey(name)),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	if len(result.Item) == 0 {
		return nil, nil
	}

	return decodeContact(result.Item)
}

func (s *DynamoDBStore) List(ctx context.Context, pageNo, pageSize int) ([]*contactbook.Contact, error) {
	// Empty pages need no scan
	if pageNo < 0 || pageSize <= 0 {
		return []*contactbook.Contact{}, nil
	}

	contacts, err := s.scanAll(ctx)
	if err != nil {
		return nil, err
	}

	return contactbook.Paginate(contacts, pageNo, pageSize), nil
}

func (s *DynamoDBStore) Count(ctx context.Context) (int, error) {
	contacts, err := s.scanAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(contacts), nil
}

// Bulk operations

func (s *DynamoDBStore) Export(ctx context.Context, path string) error {
	contacts, err := s.scanAll(ctx)
	if err != nil {
		return err
	}

	if err := WriteBulkFile(path, contacts); err != nil {
		return err
	}

	contactbook.LogContactsExported(s.opts.logger, path, len(contacts))
	return nil
}

func (s *DynamoDBStore) Import(ctx context.Context, path string) error {
	contacts, err := ReadBulkFile(path)
	if err != nil {
		return err
	}

	for _, contact := range contacts {
		item, err := attributevalue.MarshalMap(contactRecord{
			Key:     contactKey(contact.Name),
			PhoneNo: contact.PhoneString(),
			Email:   contact.Email,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal contact: %w", err)
		}

		_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(s.tableName),
			Item:      item,
		})
		if err != nil {
			contactbook.LogPersistenceError(s.opts.logger, "import", contact.Name, err)
			return fmt.Errorf("failed to import contact %s: %w", contact.Name, err)
		}
	}

	contactbook.LogContactsImported(s.opts.logger, path, len(contacts))
	return nil
}

// scanAll enumerates every key in the contacts namespace and returns the
// rebuilt contacts sorted ascending by name.
func (s *DynamoDBStore) scanAll(ctx context.Context) ([]*contactbook.Contact, error) {
	var contacts []*contactbook.Contact
	var lastEvaluatedKey map[string]types.AttributeValue

	// Paginate through all results
	for {
		scanInput := &dynamodb.ScanInput{
			TableName:        aws.String(s.tableName),
			FilterExpression: aws.String("begins_with(#pk, :prefix)"),
			ExpressionAttributeNames: map[string]string{
				"#pk": AttrPK,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":prefix": &types.AttributeValueMemberS{Value: ContactKeyPrefix},
			},
			ConsistentRead: aws.Bool(true),
		}

		if lastEvaluatedKey != nil {
			scanInput.ExclusiveStartKey = lastEvaluatedKey
		}

		result, err := s.client.Scan(ctx, scanInput)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contacts: %w", err)
		}

		for _, item := range result.Items {
			contact, err := decodeContact(item)
			if err != nil {
				return nil, err
			}
			contacts = append(contacts, contact)
		}

		// Check if there are more results
		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		lastEvaluatedKey = result.LastEvaluatedKey
	}

	contactbook.SortByName(contacts)
	return contacts, nil
}

func (s *DynamoDBStore) checkFieldCount(operation, name string, expected, actual int) error {
	if actual == expected {
		return nil
	}
	contactbook.LogConsistencyError(s.opts.logger, operation, name, expected, actual)
	return contactbook.NewConsistencyError(name,
		fmt.Sprintf("%s set %d fields, expected %d", operation, actual, expected))
}

// decodeContact rebuilds a contact from a stored item, recovering the name
// from the key.
func decodeContact(item map[string]types.AttributeValue) (*contactbook.Contact, error) {
	var record contactRecord
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contact: %w", err)
	}

	name, ok := nameFromKey(record.Key)
	if !ok {
		return nil, contactbook.NewConsistencyError(record.Key, "key is outside the contacts namespace")
	}

	phoneNo, err := strconv.ParseUint(record.PhoneNo, 10, 64)
	if err != nil {
		return nil, contactbook.NewConsistencyError(name, "stored phone_no is not a u64 value").WithCause(err)
	}

	return &contactbook.Contact{
		Name:    name,
		PhoneNo: phoneNo,
		Email:   record.Email,
	}, nil
}
