package repository

import (
	"context"
	"time"

	"autoparts-backoffice/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo implementation
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection("orders")}
}

func (m *MongoOrderRepository) Save(ctx context.Context, o *model.Order) error {
	now := time.Now().UTC()

	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
		// Primer estado en historial
		o.History = []model.StatusRecord{
			{
				Status:    o.Status,
				Timestamp: now,
				ActorID:   o.UserID, // creador
				Reason:    "Orden creada",
				Current:   true,
			},
		}
	}
	o.UpdatedAt = now

	filter := bson.M{"order_id": o.OrderID}
	update := bson.M{"$set": o}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	var res model.Order
	err := m.col.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

// UpdateStatus cambia el estado y agrega el registro al historial.
// Si deliveredAt no es nil también marca la orden como entregada.
func (m *MongoOrderRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus, record model.StatusRecord, deliveredAt *time.Time) error {

	// PASO 1: desmarcar el registro actual
	filter := bson.M{
		"order_id":        orderID,
		"history.current": true,
	}

	update1 := bson.M{
		"$set": bson.M{
			"history.$.current": false,
		},
	}

	r1, err := m.col.UpdateOne(ctx, filter, update1)
	if err != nil {
		return err
	}
	if r1.MatchedCount == 0 {
		return ErrNotFound
	}

	// PASO 2: actualizar estado + pushear nuevo registro
	set := bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if deliveredAt != nil {
		set["is_delivered"] = true
		set["delivered_at"] = *deliveredAt
	}

	update2 := bson.M{
		"$set":  set,
		"$push": bson.M{"history": record},
	}

	_, err = m.col.UpdateOne(ctx, bson.M{"order_id": orderID}, update2)
	return err
}

func (m *MongoOrderRepository) FindAll(ctx context.Context) ([]*model.Order, error) {
	return m.findMany(ctx, bson.M{})
}

func (m *MongoOrderRepository) FindByStatus(ctx context.Context, status model.OrderStatus) ([]*model.Order, error) {
	return m.findMany(ctx, bson.M{"status": status})
}

func (m *MongoOrderRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Order, error) {
	return m.findMany(ctx, bson.M{"user_id": userID})
}

func (m *MongoOrderRepository) findMany(ctx context.Context, filter bson.M) ([]*model.Order, error) {
	cur, err := m.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.Order
	for cur.Next(ctx) {
		var v model.Order
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}
