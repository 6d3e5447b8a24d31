package reservationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trimly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ClaimSlot inserts a HOLD reservation inside a multi-document transaction.
//
// The availability read the caller acted on is a stale snapshot, so the free
// check runs again here, inside the transaction boundary. Racing claims for
// the same resource both write the per-resource claim marker, which forces a
// write conflict so at most one transaction commits; the loser surfaces as
// ErrClaimConflict and the caller is expected to re-query availability.
func (repo *MongoReservationRepo) ClaimSlot(ctx context.Context, res *models.Reservation, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client := repo.reservationColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		marker := bson.M{"tenantId": res.TenantID, "resourceId": res.ResourceID}
		if _, err := repo.claimColl.UpdateOne(sc, marker,
			bson.M{"$set": bson.M{"lastClaimAt": now}},
			options.Update().SetUpsert(true),
		); err != nil {
			return fmt.Errorf("failed to touch claim marker: %w", err)
		}

		count, err := repo.reservationColl.CountDocuments(sc,
			blockingFilter(res.TenantID, res.ResourceID, res.Start, res.End, now))
		if err != nil {
			return fmt.Errorf("failed to re-check busy intervals: %w", err)
		}
		if count > 0 {
			return ErrClaimConflict
		}

		// Time off blocks the interval exactly like a reservation does.
		offCount, err := repo.timeOffColl.CountDocuments(sc, bson.M{
			"tenantId":   res.TenantID,
			"resourceId": res.ResourceID,
			"start":      bson.M{"$lt": res.End},
			"end":        bson.M{"$gt": res.Start},
		})
		if err != nil {
			return fmt.Errorf("failed to re-check time off: %w", err)
		}
		if offCount > 0 {
			return ErrClaimConflict
		}

		if _, err := repo.reservationColl.InsertOne(sc, res); err != nil {
			return fmt.Errorf("insert reservation failed: %w", err)
		}
		return nil
	}

	err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
	if err != nil {
		if errors.Is(err, ErrClaimConflict) || isWriteConflict(err) {
			return ErrClaimConflict
		}
		return fmt.Errorf("slot claim transaction failed: %w", err)
	}
	return nil
}

// isWriteConflict reports whether the error is the server aborting one of two
// transactions that touched the same claim marker.
func isWriteConflict(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.HasErrorLabel("TransientTransactionError") || cmdErr.Code == 112
	}
	var wErr mongo.WriteException
	if errors.As(err, &wErr) {
		return wErr.HasErrorLabel("TransientTransactionError")
	}
	return false
}
