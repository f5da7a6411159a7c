package database

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clubconnect/entity"
)

func (m *MongoDB) InsertSignupRequest(req *entity.SignupRequest) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	req.Email = entity.NormalizeEmail(req.Email)
	_, err = m.collection(connection, collectionSignupRequests).InsertOne(m.ctx, req)
	if err != nil {
		return fmt.Errorf("mongodb insert signup request: %w", err)
	}
	return nil
}

func (m *MongoDB) GetSignupRequest(id string) (*entity.SignupRequest, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var req entity.SignupRequest
	err = m.collection(connection, collectionSignupRequests).
		FindOne(m.ctx, bson.D{{Key: "_id", Value: id}}).Decode(&req)
	if isNoDocuments(err) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find signup request: %w", err)
	}
	return &req, nil
}

// DeleteSignupRequest removes the request; ErrNotFound when it was already
// consumed, which makes approve/reject idempotent against double clicks.
func (m *MongoDB) DeleteSignupRequest(id string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	res, err := m.collection(connection, collectionSignupRequests).DeleteOne(m.ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("mongodb delete signup request: %w", err)
	}
	if res.DeletedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (m *MongoDB) SignupRequestEmailExists(email string) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "email", Value: entity.NormalizeEmail(email)}}
	count, err := m.collection(connection, collectionSignupRequests).CountDocuments(m.ctx, filter)
	if err != nil {
		return false, fmt.Errorf("mongodb count signup requests: %w", err)
	}
	return count > 0, nil
}

// ListSignupRequests returns pending requests, newest first.
func (m *MongoDB) ListSignupRequests() ([]*entity.SignupRequest, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := m.collection(connection, collectionSignupRequests).Find(m.ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb list signup requests: %w", err)
	}
	defer cursor.Close(m.ctx)

	var requests []*entity.SignupRequest
	if err = cursor.All(m.ctx, &requests); err != nil {
		return nil, fmt.Errorf("mongodb decode signup requests: %w", err)
	}
	return requests, nil
}
