package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trimly/database"
	"trimly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

// MongoReservationRepo implements ReservationRepository backed by MongoDB.
// It reads time_off alongside reservations so the claim transaction can
// re-check the full busy predicate, not just other reservations.
type MongoReservationRepo struct {
	reservationColl *mongo.Collection
	claimColl       *mongo.Collection
	timeOffColl     *mongo.Collection
}

// NewMongoReservationRepo constructs a reservation repository over the shared client.
func NewMongoReservationRepo() *MongoReservationRepo {
	return &MongoReservationRepo{
		reservationColl: database.Collection("reservations"),
		claimColl:       database.Collection("slot_claims"),
		timeOffColl:     database.Collection("time_off"),
	}
}

// blockingFilter matches reservations that block [from, to) for the resource:
// CONFIRMED rows plus HOLD rows whose TTL has not lapsed. Expired holds fall
// out of every read through this filter, which is the lazy expiry path.
func blockingFilter(tenantID, resourceID string, from, to, now time.Time) bson.M {
	return bson.M{
		"tenantId":   tenantID,
		"resourceId": resourceID,
		"start":      bson.M{"$lt": to},
		"end":        bson.M{"$gt": from},
		"$or": []bson.M{
			{"status": models.StatusConfirmed},
			{"status": models.StatusHold, "holdExpiresAt": bson.M{"$gte": now}},
		},
	}
}

func (repo *MongoReservationRepo) GetByID(ctx context.Context, tenantID, reservationID string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var res models.Reservation
	err := repo.reservationColl.FindOne(ctx, bson.M{
		"id":       reservationID,
		"tenantId": tenantID,
	}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reservation %s: %w", reservationID, err)
	}
	return &res, nil
}

func (repo *MongoReservationRepo) ListBlocking(ctx context.Context, tenantID, resourceID string, from, to, now time.Time) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := repo.reservationColl.Find(ctx, blockingFilter(tenantID, resourceID, from, to, now), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocking reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode blocking reservations: %w", err)
	}
	return reservations, nil
}

func (repo *MongoReservationRepo) List(ctx context.Context, tenantID string, filter ListFilter) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := bson.M{"tenantId": tenantID}
	if filter.ResourceID != "" {
		query["resourceId"] = filter.ResourceID
	}
	if !filter.From.IsZero() && !filter.To.IsZero() {
		query["start"] = bson.M{"$lt": filter.To}
		query["end"] = bson.M{"$gt": filter.From}
	}
	if len(filter.Statuses) > 0 {
		query["status"] = bson.M{"$in": filter.Statuses}
	}

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := repo.reservationColl.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return reservations, nil
}

func (repo *MongoReservationRepo) ConfirmHold(ctx context.Context, tenantID, reservationID string, now time.Time) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"id":            reservationID,
		"tenantId":      tenantID,
		"status":        models.StatusHold,
		"holdExpiresAt": bson.M{"$gte": now},
	}
	update := bson.M{
		"$set":   bson.M{"status": models.StatusConfirmed},
		"$unset": bson.M{"holdExpiresAt": ""},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var res models.Reservation
	err := repo.reservationColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoTransition
	}
	if err != nil {
		return nil, fmt.Errorf("failed to confirm hold %s: %w", reservationID, err)
	}
	return &res, nil
}

func (repo *MongoReservationRepo) Transition(ctx context.Context, tenantID, reservationID string, from []string, to string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"id":       reservationID,
		"tenantId": tenantID,
		"status":   bson.M{"$in": from},
	}
	update := bson.M{"$set": bson.M{"status": to}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var res models.Reservation
	err := repo.reservationColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoTransition
	}
	if err != nil {
		return nil, fmt.Errorf("failed to transition reservation %s to %s: %w", reservationID, to, err)
	}
	return &res, nil
}

func (repo *MongoReservationRepo) ArchiveExpiredHolds(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{
		"status":        models.StatusHold,
		"holdExpiresAt": bson.M{"$lt": cutoff},
	}
	update := bson.M{"$set": bson.M{"status": models.StatusExpired}}

	res, err := repo.reservationColl.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to archive expired holds: %w", err)
	}
	return res.ModifiedCount, nil
}
