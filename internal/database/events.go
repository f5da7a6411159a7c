package database

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clubconnect/entity"
)

func (m *MongoDB) SaveEvent(ev *entity.Event) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "_id", Value: ev.Id}}
	update := bson.D{{Key: "$set", Value: ev}}
	opts := options.Update().SetUpsert(true)
	_, err = m.collection(connection, collectionEvents).UpdateOne(m.ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("mongodb save event: %w", err)
	}
	return nil
}

func (m *MongoDB) GetEvent(id string) (*entity.Event, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var ev entity.Event
	err = m.collection(connection, collectionEvents).FindOne(m.ctx, bson.D{{Key: "_id", Value: id}}).Decode(&ev)
	if isNoDocuments(err) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find event: %w", err)
	}
	return &ev, nil
}

func (m *MongoDB) listEvents(filter bson.D) ([]*entity.Event, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	cursor, err := m.collection(connection, collectionEvents).Find(m.ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongodb list events: %w", err)
	}
	defer cursor.Close(m.ctx)

	var events []*entity.Event
	if err = cursor.All(m.ctx, &events); err != nil {
		return nil, fmt.Errorf("mongodb decode events: %w", err)
	}
	return events, nil
}

func (m *MongoDB) ListEvents() ([]*entity.Event, error) {
	return m.listEvents(bson.D{})
}

func (m *MongoDB) ListEventsByClub(club string) ([]*entity.Event, error) {
	return m.listEvents(bson.D{{Key: "club", Value: club}})
}

// RegisterEmail appends the email to registered_emails unless it is already
// present; the presence check rides in the update filter.
func (m *MongoDB) RegisterEmail(eventId, email string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	email = entity.NormalizeEmail(email)
	filter := bson.D{
		{Key: "_id", Value: eventId},
		{Key: "registered_emails", Value: bson.D{{Key: "$ne", Value: email}}},
	}
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: "registered_emails", Value: email}}}}
	res, err := m.collection(connection, collectionEvents).UpdateOne(m.ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb register email: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if _, err = m.GetEvent(eventId); err != nil {
		return err
	}
	return entity.ErrAlreadyRegistered
}

// UnregisterEmail removes the email from both lists. Removing an email that
// was never registered is a no-op, not an error.
func (m *MongoDB) UnregisterEmail(eventId, email string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	email = entity.NormalizeEmail(email)
	filter := bson.D{{Key: "_id", Value: eventId}}
	update := bson.D{{Key: "$pull", Value: bson.D{
		{Key: "registered_emails", Value: email},
		{Key: "participated_emails", Value: email},
	}}}
	res, err := m.collection(connection, collectionEvents).UpdateOne(m.ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb unregister email: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// SetEventParticipation adds or removes the email on participated_emails.
func (m *MongoDB) SetEventParticipation(eventId, email string, participated bool) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	email = entity.NormalizeEmail(email)
	var update bson.D
	if participated {
		update = bson.D{{Key: "$addToSet", Value: bson.D{{Key: "participated_emails", Value: email}}}}
	} else {
		update = bson.D{{Key: "$pull", Value: bson.D{{Key: "participated_emails", Value: email}}}}
	}
	res, err := m.collection(connection, collectionEvents).UpdateOne(m.ctx, bson.D{{Key: "_id", Value: eventId}}, update)
	if err != nil {
		return fmt.Errorf("mongodb set event participation: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}
