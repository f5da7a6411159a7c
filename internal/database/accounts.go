package database

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"clubconnect/entity"
)

// GetAccount loads the account variant matching (email, role).
func (m *MongoDB) GetAccount(email string, role entity.Role) (*entity.Account, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "email", Value: entity.NormalizeEmail(email)}, {Key: "role", Value: role}}
	var acc entity.Account
	err = m.collection(connection, collectionAccounts).FindOne(m.ctx, filter).Decode(&acc)
	if isNoDocuments(err) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find account: %w", err)
	}
	return &acc, nil
}

// FindAccountByEmail returns the first account with the email across all
// roles, or ErrNotFound.
func (m *MongoDB) FindAccountByEmail(email string) (*entity.Account, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "email", Value: entity.NormalizeEmail(email)}}
	var acc entity.Account
	err = m.collection(connection, collectionAccounts).FindOne(m.ctx, filter).Decode(&acc)
	if isNoDocuments(err) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb find account: %w", err)
	}
	return &acc, nil
}

// AccountEmailExists reports whether any account variant holds the email.
func (m *MongoDB) AccountEmailExists(email string) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "email", Value: entity.NormalizeEmail(email)}}
	count, err := m.collection(connection, collectionAccounts).CountDocuments(m.ctx, filter)
	if err != nil {
		return false, fmt.Errorf("mongodb count accounts: %w", err)
	}
	return count > 0, nil
}

func (m *MongoDB) InsertAccount(acc *entity.Account) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	acc.Email = entity.NormalizeEmail(acc.Email)
	_, err = m.collection(connection, collectionAccounts).InsertOne(m.ctx, acc)
	if err != nil {
		return fmt.Errorf("mongodb insert account: %w", err)
	}
	return nil
}

// UpsertAccount writes the account keyed by (email, role). Used by signup
// approval, which must succeed even if an account document already exists.
func (m *MongoDB) UpsertAccount(acc *entity.Account) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	acc.Email = entity.NormalizeEmail(acc.Email)
	filter := bson.D{{Key: "email", Value: acc.Email}, {Key: "role", Value: acc.Role}}
	update := bson.D{{Key: "$set", Value: acc}}
	opts := options.Update().SetUpsert(true)
	_, err = m.collection(connection, collectionAccounts).UpdateOne(m.ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("mongodb upsert account: %w", err)
	}
	return nil
}

func (m *MongoDB) DeleteAccount(email string, role entity.Role) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "email", Value: entity.NormalizeEmail(email)}, {Key: "role", Value: role}}
	res, err := m.collection(connection, collectionAccounts).DeleteOne(m.ctx, filter)
	if err != nil {
		return fmt.Errorf("mongodb delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (m *MongoDB) ListAccounts(role entity.Role) ([]*entity.Account, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	cursor, err := m.collection(connection, collectionAccounts).Find(m.ctx, bson.D{{Key: "role", Value: role}})
	if err != nil {
		return nil, fmt.Errorf("mongodb list accounts: %w", err)
	}
	defer cursor.Close(m.ctx)

	var accounts []*entity.Account
	if err = cursor.All(m.ctx, &accounts); err != nil {
		return nil, fmt.Errorf("mongodb decode accounts: %w", err)
	}
	return accounts, nil
}

// ListLeadsByHomeClub returns the leads whose home club matches; they are the
// approval targets for join requests to that club.
func (m *MongoDB) ListLeadsByHomeClub(club string) ([]*entity.Account, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "role", Value: entity.RoleLead}, {Key: "club", Value: club}}
	cursor, err := m.collection(connection, collectionAccounts).Find(m.ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongodb list leads: %w", err)
	}
	defer cursor.Close(m.ctx)

	var leads []*entity.Account
	if err = cursor.All(m.ctx, &leads); err != nil {
		return nil, fmt.Errorf("mongodb decode leads: %w", err)
	}
	return leads, nil
}

// AddPendingClub appends the club to pending_clubs only if it is in neither
// membership list. The membership checks and the push happen in a single
// filtered update, so concurrent requests cannot both pass the check.
func (m *MongoDB) AddPendingClub(email string, role entity.Role, club string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	email = entity.NormalizeEmail(email)
	filter := bson.D{
		{Key: "email", Value: email},
		{Key: "role", Value: role},
		{Key: "selected_clubs", Value: bson.D{{Key: "$ne", Value: club}}},
		{Key: "pending_clubs", Value: bson.D{{Key: "$ne", Value: club}}},
	}
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: "pending_clubs", Value: club}}}}
	res, err := m.collection(connection, collectionAccounts).UpdateOne(m.ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb add pending club: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Guarded update matched nothing: distinguish missing account from a
	// membership conflict.
	acc, err := m.GetAccount(email, role)
	if err != nil {
		return err
	}
	if acc.HasSelected(club) {
		return entity.ErrAlreadyMember
	}
	if acc.HasPending(club) {
		return entity.ErrAlreadyPending
	}
	return fmt.Errorf("mongodb add pending club: update matched no document")
}

// ResolvePendingClub removes the club from pending_clubs and, on approval,
// adds it to selected_clubs in the same update, so the two lists never hold
// the club simultaneously.
func (m *MongoDB) ResolvePendingClub(email string, role entity.Role, club string, approved bool) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "email", Value: entity.NormalizeEmail(email)}, {Key: "role", Value: role}}
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: "pending_clubs", Value: club}}}}
	if approved {
		update = append(update, bson.E{Key: "$addToSet", Value: bson.D{{Key: "selected_clubs", Value: club}}})
	}
	res, err := m.collection(connection, collectionAccounts).UpdateOne(m.ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb resolve pending club: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// EnsureSelectedClub syncs a lead's home club into selected_clubs on login.
func (m *MongoDB) EnsureSelectedClub(email string, role entity.Role, club string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "email", Value: entity.NormalizeEmail(email)}, {Key: "role", Value: role}}
	update := bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: "selected_clubs", Value: club}}},
		{Key: "$pull", Value: bson.D{{Key: "pending_clubs", Value: club}}},
	}
	_, err = m.collection(connection, collectionAccounts).UpdateOne(m.ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb ensure selected club: %w", err)
	}
	return nil
}

// SetParticipatedEvent adds or removes the denormalized event detail string
// on the account's participated_events set.
func (m *MongoDB) SetParticipatedEvent(email string, role entity.Role, detail string, participated bool) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "email", Value: entity.NormalizeEmail(email)}, {Key: "role", Value: role}}
	var update bson.D
	if participated {
		update = bson.D{{Key: "$addToSet", Value: bson.D{{Key: "participated_events", Value: detail}}}}
	} else {
		update = bson.D{{Key: "$pull", Value: bson.D{{Key: "participated_events", Value: detail}}}}
	}
	res, err := m.collection(connection, collectionAccounts).UpdateOne(m.ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb set participated event: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// SetProfileFields applies a partial profile update to (email, role).
func (m *MongoDB) SetProfileFields(email string, role entity.Role, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	set := bson.D{}
	for k, v := range fields {
		set = append(set, bson.E{Key: k, Value: v})
	}
	filter := bson.D{{Key: "email", Value: entity.NormalizeEmail(email)}, {Key: "role", Value: role}}
	res, err := m.collection(connection, collectionAccounts).UpdateOne(m.ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("mongodb set profile fields: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// SetImageUrl updates the avatar on every account variant holding the email.
func (m *MongoDB) SetImageUrl(email, imageUrl string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "email", Value: entity.NormalizeEmail(email)}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "image_url", Value: imageUrl}}}}
	res, err := m.collection(connection, collectionAccounts).UpdateMany(m.ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb set image url: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// SetPassword replaces the password hash on every account variant holding the
// email. Password reset is keyed by email only, matching all roles at once.
func (m *MongoDB) SetPassword(email, hash string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "email", Value: entity.NormalizeEmail(email)}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "password", Value: hash}}}}
	res, err := m.collection(connection, collectionAccounts).UpdateMany(m.ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb set password: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// PushAdminNotification appends an in-app notification to every admin account
// and bumps their unread counters in the same update.
func (m *MongoDB) PushAdminNotification(n entity.Notification) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{{Key: "role", Value: entity.RoleAdmin}}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "notifications", Value: n}}},
		{Key: "$inc", Value: bson.D{{Key: "unread_notifications", Value: 1}}},
	}
	_, err = m.collection(connection, collectionAccounts).UpdateMany(m.ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb push notification: %w", err)
	}
	return nil
}

// MarkNotificationRead flips one unread notification to read and decrements
// the counter. Returns ErrNotFound when the id is absent or already read, so
// the counter can never drop below the number of unread items.
func (m *MongoDB) MarkNotificationRead(email, notificationId string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	filter := bson.D{
		{Key: "email", Value: entity.NormalizeEmail(email)},
		{Key: "role", Value: entity.RoleAdmin},
		{Key: "notifications", Value: bson.D{{Key: "$elemMatch", Value: bson.D{
			{Key: "id", Value: notificationId},
			{Key: "read", Value: false},
		}}}},
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "notifications.$.read", Value: true}}},
		{Key: "$inc", Value: bson.D{{Key: "unread_notifications", Value: -1}}},
	}
	res, err := m.collection(connection, collectionAccounts).UpdateOne(m.ctx, filter, update)
	if err != nil {
		return fmt.Errorf("mongodb mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return entity.ErrNotFound
	}
	return nil
}
