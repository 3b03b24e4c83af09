package repository

import (
	"context"
	"time"

	"autoparts-backoffice/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection("users")}
}

func (m *MongoUserRepository) Save(ctx context.Context, u *model.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	filter := bson.M{"_id": u.ID}
	update := bson.M{"$set": u}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoUserRepository) FindByID(ctx context.Context, userID string) (*model.User, error) {
	var res model.User
	err := m.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

func (m *MongoUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	return m.findMany(ctx, bson.M{})
}

func (m *MongoUserRepository) FindByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	return m.findMany(ctx, bson.M{"role": role})
}

// SetApproval aprueba al distribuidor con claves con punto, igual que el
// PATCH del panel. El filtro exige role=distributor para no aprobar a
// usuarios de otro rol por accidente.
func (m *MongoUserRepository) SetApproval(ctx context.Context, userID, approvedBy string, approvedAt time.Time) error {
	filter := bson.M{"_id": userID, "role": model.RoleDistributor}
	update := bson.M{
		"$set": bson.M{
			"distributor_info.is_approved": true,
			"distributor_info.approved_at": approvedAt,
			"distributor_info.approved_by": approvedBy,
			"updated_at":                   time.Now().UTC(),
		},
	}

	res, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearApproval revoca la aprobación. Los campos de auditoría se eliminan
// del documento, no se dejan con valores viejos.
func (m *MongoUserRepository) ClearApproval(ctx context.Context, userID string) error {
	filter := bson.M{"_id": userID, "role": model.RoleDistributor}
	update := bson.M{
		"$set": bson.M{
			"distributor_info.is_approved": false,
			"updated_at":                   time.Now().UTC(),
		},
		"$unset": bson.M{
			"distributor_info.approved_at": "",
			"distributor_info.approved_by": "",
		},
	}

	res, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoUserRepository) SetRole(ctx context.Context, userID string, role model.Role) error {
	update := bson.M{
		"$set": bson.M{
			"role":       role,
			"updated_at": time.Now().UTC(),
		},
	}

	res, err := m.col.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoUserRepository) findMany(ctx context.Context, filter bson.M) ([]*model.User, error) {
	cur, err := m.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.User
	for cur.Next(ctx) {
		var v model.User
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}
