package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/accountsvc/user-service/internal/core/ports"
)

const auditCollection = "audit_events"

// AuditRepository persists the account activity trail.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	UserID int64  `bson:"user_id"`
	Action string `bson:"action"`
	Detail string `bson:"detail,omitempty"`
	At     int64  `bson:"at"`
}

func (r *AuditRepository) Record(ctx context.Context, event ports.AuditEvent) error {
	doc := mongoAuditEvent{
		UserID: event.UserID,
		Action: event.Action,
		Detail: event.Detail,
		At:     event.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
