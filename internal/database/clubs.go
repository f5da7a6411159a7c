package database

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clubconnect/entity"
)

func (m *MongoDB) GetClub(name string) (*entity.Club, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var club entity.Club
	err = m.collection(connection, collectionClubs).FindOne(m.ctx, bson.D{{Key: "_id", Value: name}}).Decode(&club)
	if isNoDocuments(err) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find club: %w", err)
	}
	return &club, nil
}

func (m *MongoDB) InsertClub(club *entity.Club) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	_, err = m.collection(connection, collectionClubs).InsertOne(m.ctx, club)
	if err != nil {
		return fmt.Errorf("mongodb insert club: %w", err)
	}
	return nil
}

func (m *MongoDB) UpsertClub(club *entity.Club) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "_id", Value: club.Name}}
	update := bson.D{{Key: "$set", Value: club}}
	opts := options.Update().SetUpsert(true)
	_, err = m.collection(connection, collectionClubs).UpdateOne(m.ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("mongodb upsert club: %w", err)
	}
	return nil
}

func (m *MongoDB) ListClubs() ([]*entity.Club, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	cursor, err := m.collection(connection, collectionClubs).Find(m.ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongodb list clubs: %w", err)
	}
	defer cursor.Close(m.ctx)

	var clubs []*entity.Club
	if err = cursor.All(m.ctx, &clubs); err != nil {
		return nil, fmt.Errorf("mongodb decode clubs: %w", err)
	}
	return clubs, nil
}
