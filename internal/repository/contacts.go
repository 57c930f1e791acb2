package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"safelens/internal/domain"
)

const skPrefixContact = "CONTACT#"

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ContactStore defines the trusted-contact operations consumed by the
// alert flow.
type ContactStore interface {
	SaveContact(ctx context.Context, contact domain.Contact) error
	ListContacts(ctx context.Context, userID string) ([]domain.Contact, error)
}

// Client wraps a DynamoDB table of per-user emergency contacts.
type Client struct {
	api       dynamodbAPI
	tableName string
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName}, nil
}

// userPK returns the DynamoDB partition key for a user's contacts.
func userPK(userID string) string {
	return "USER#" + userID
}

// contactSK returns the sort key for a contact. One item per phone number
// keeps saves idempotent for the same contact.
func contactSK(phone string) string {
	return skPrefixContact + phone
}

// NewContact constructs a Contact with PK/SK set from the user id and
// phone number.
func NewContact(userID, name, phone string) domain.Contact {
	return domain.Contact{
		PK:     userPK(userID),
		SK:     contactSK(phone),
		UserID: userID,
		Name:   name,
		Phone:  phone,
		Added:  time.Now().UTC().Format(time.RFC3339),
	}
}

// SaveContact writes or replaces one contact record.
func (c *Client) SaveContact(ctx context.Context, contact domain.Contact) error {
	if contact.PK == "" || contact.SK == "" {
		return errors.New("repository: SaveContact: PK and SK are required")
	}

	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item:      contactItem(contact),
	})
	if err != nil {
		return fmt.Errorf("repository: SaveContact: %w", err)
	}
	return nil
}

// ListContacts queries all CONTACT# items for a user in sort-key order.
func (c *Client) ListContacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: userPK(userID)},
			":prefix": &types.AttributeValueMemberS{Value: skPrefixContact},
		},
	}

	out, err := c.api.Query(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("repository: ListContacts query: %w", err)
	}

	contacts := make([]domain.Contact, 0, len(out.Items))
	for _, item := range out.Items {
		contact, err := itemToContact(item)
		if err != nil {
			return nil, fmt.Errorf("repository: ListContacts unmarshal: %w", err)
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

// itemToContact converts a DynamoDB attribute map to a Contact.
func itemToContact(item map[string]types.AttributeValue) (domain.Contact, error) {
	pk, err := strAttr(item, "PK")
	if err != nil {
		return domain.Contact{}, err
	}
	sk, err := strAttr(item, "SK")
	if err != nil {
		return domain.Contact{}, err
	}
	phone, err := strAttr(item, "phone")
	if err != nil {
		return domain.Contact{}, err
	}
	userID, _ := strAttr(item, "userId") // allow empty
	name, _ := strAttr(item, "name")     // allow empty
	added, _ := strAttr(item, "added")   // allow empty

	return domain.Contact{
		PK:     pk,
		SK:     sk,
		UserID: userID,
		Name:   name,
		Phone:  phone,
		Added:  added,
	}, nil
}

func contactItem(contact domain.Contact) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK":     &types.AttributeValueMemberS{Value: contact.PK},
		"SK":     &types.AttributeValueMemberS{Value: contact.SK},
		"userId": &types.AttributeValueMemberS{Value: contact.UserID},
		"name":   &types.AttributeValueMemberS{Value: contact.Name},
		"phone":  &types.AttributeValueMemberS{Value: contact.Phone},
		"added":  &types.AttributeValueMemberS{Value: contact.Added},
	}
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}
