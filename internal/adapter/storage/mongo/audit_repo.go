package mongo

import (
	"context"
	"fmt"

	"guild-ledger/internal/core/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// AuditRepo implements ports.AuditRepository.
type AuditRepo struct {
	entries *mongo.Collection
	markers *mongo.Collection
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(s *Store) *AuditRepo {
	return &AuditRepo{
		entries: s.collection(colAudit),
		markers: s.collection(colMarkers),
	}
}

func (r *AuditRepo) Create(ctx context.Context, e *domain.AuditEntry) error {
	if _, err := r.entries.InsertOne(ctx, toAuditModel(e)); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepo) Query(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	filter = filter.Normalize()
	doc := auditFilterDoc(filter)

	total, err := r.entries.CountDocuments(ctx, doc)
	if err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(filter.Offset())).
		SetLimit(int64(filter.PageSize))

	entries, err := r.find(ctx, doc, opts)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *AuditRepo) FindByCorrelationID(ctx context.Context, correlationID string) ([]domain.AuditEntry, error) {
	return r.find(ctx,
		bson.D{{Key: "correlation_id", Value: correlationID}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
}

func (r *AuditRepo) HasRollback(ctx context.Context, correlationID string) (bool, error) {
	n, err := r.markers.CountDocuments(ctx, bson.M{"_id": correlationID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check rollback marker: %w", err)
	}
	return n > 0, nil
}

func (r *AuditRepo) find(ctx context.Context, filter bson.D, opts *options.FindOptionsBuilder) ([]domain.AuditEntry, error) {
	cursor, err := r.entries.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit entries: %w", err)
	}

	var models []auditModel
	if err := cursor.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("decode audit entries: %w", err)
	}

	entries := make([]domain.AuditEntry, 0, len(models))
	for i := range models {
		e, err := models[i].entry()
		if err != nil {
			return nil, fmt.Errorf("decode audit entry %s: %w", models[i].ID, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// auditFilterDoc renders the set fields of f as an equality/range filter.
func auditFilterDoc(f domain.AuditFilter) bson.D {
	doc := bson.D{}
	eq := func(key, value string) {
		if value != "" {
			doc = append(doc, bson.E{Key: key, Value: value})
		}
	}
	eq("target_id", f.TargetID)
	eq("actor_id", f.ActorID)
	eq("guild_id", f.GuildID)
	eq("correlation_id", f.CorrelationID)
	eq("operation_type", string(f.OperationType))

	var window bson.D
	if f.From != nil {
		window = append(window, bson.E{Key: "$gte", Value: *f.From})
	}
	if f.To != nil {
		window = append(window, bson.E{Key: "$lte", Value: *f.To})
	}
	if len(window) > 0 {
		doc = append(doc, bson.E{Key: "created_at", Value: window})
	}
	return doc
}
