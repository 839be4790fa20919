package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hermanjons/OrderScout-sub000/internal/logger"
)

// ConflictPolicy decides what happens when an incoming row collides with an existing unique key
type ConflictPolicy string

const (
	// ConflictIgnore keeps the existing row and discards the incoming one
	ConflictIgnore ConflictPolicy = "ignore"
	// ConflictMerge updates the existing row in place
	ConflictMerge ConflictPolicy = "merge"
)

// UpsertSpec describes how rows are written to their table
type UpsertSpec struct {
	// UniqueKey lists the columns of the conflict target
	UniqueKey []string
	Policy    ConflictPolicy
	// BatchSize is the number of rows per transaction, 0 writes everything in one chunk
	BatchSize int
	// UpdateColumns limits the columns assigned by ConflictMerge, empty updates all non-key columns
	UpdateColumns []string
}

// UpsertResult counts the rows of an Upsert call
type UpsertResult struct {
	Written int64 `json:"written"`
	Skipped int64 `json:"skipped"`
	Failed  int64 `json:"failed"`
}

// Add accumulates another result into r
func (r *UpsertResult) Add(other UpsertResult) {
	r.Written += other.Written
	r.Skipped += other.Skipped
	r.Failed += other.Failed
}

// Upsert writes rows in chunks, each chunk in its own transaction.
// A failing chunk is logged and counted as failed without aborting the remaining chunks;
// the returned error is only set when the context is cancelled.
func Upsert[T any](ctx context.Context, db *gorm.DB, rows []T, spec UpsertSpec) (UpsertResult, error) {
	var result UpsertResult
	if len(rows) == 0 {
		return result, nil
	}

	if len(spec.UniqueKey) == 0 {
		return result, fmt.Errorf("upsert requires a unique key")
	}

	conflict, err := conflictClause(spec)
	if err != nil {
		return result, err
	}

	batchSize := len(rows)
	if spec.BatchSize > 0 && spec.BatchSize < batchSize {
		batchSize = spec.BatchSize
	}
	if fields := fieldsPerRecord[T](db); fields > 0 {
		batchSize = min(batchSize, calculateSafeBatchSize(len(rows), fields))
	}

	for start := 0; start < len(rows); start += batchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		end := min(start+batchSize, len(rows))

		// Create writes generated keys back into the slice, so the caller's rows are left alone
		chunk := make([]T, end-start)
		copy(chunk, rows[start:end])

		var written int64
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Clauses(conflict).Create(&chunk)
			if res.Error != nil {
				return res.Error
			}
			written = res.RowsAffected
			return nil
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}

			logger.WarnCtx(ctx, "Failed to write chunk, skipping",
				zap.Error(err),
				zap.Int("offset", start),
				zap.Int("rows", len(chunk)))
			result.Failed += int64(len(chunk))
			continue
		}

		result.Written += written
		result.Skipped += int64(len(chunk)) - written
	}

	return result, nil
}

func conflictClause(spec UpsertSpec) (clause.OnConflict, error) {
	columns := make([]clause.Column, 0, len(spec.UniqueKey))
	for _, name := range spec.UniqueKey {
		columns = append(columns, clause.Column{Name: name})
	}

	switch spec.Policy {
	case ConflictIgnore, "":
		return clause.OnConflict{Columns: columns, DoNothing: true}, nil
	case ConflictMerge:
		if len(spec.UpdateColumns) > 0 {
			return clause.OnConflict{
				Columns:   columns,
				DoUpdates: clause.AssignmentColumns(spec.UpdateColumns),
			}, nil
		}
		return clause.OnConflict{Columns: columns, UpdateAll: true}, nil
	default:
		return clause.OnConflict{}, fmt.Errorf("unknown conflict policy: %s", spec.Policy)
	}
}

// fieldsPerRecord returns the number of columns T writes, 0 when T is not a parsable model
func fieldsPerRecord[T any](db *gorm.DB) int {
	var model T
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(&model); err != nil {
		return 0
	}
	return len(stmt.Schema.DBNames)
}

// calculateSafeBatchSize computes the largest batch size that stays under the bind
// parameter limit of the extended protocol (65535 per statement).
//
// A total headroom is reserved for batch-level overhead such as ON CONFLICT
// parameters and GORM-added timestamp fields.
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000

	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return totalRecords
	}

	return safeBatchSize
}
