// internal/services/uniqueness.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// uniqueScope narrows a uniqueness check to siblings sharing one parent
// foreign key. A nil scope means the value must be unique across every row
// of the model.
type uniqueScope struct {
	column   string
	parentID uuid.UUID
}

func scopedTo(column string, parentID uuid.UUID) *uniqueScope {
	return &uniqueScope{column: column, parentID: parentID}
}

// checkUnique reports a DuplicateValueError when another row of the model
// already holds value in field within scope. Pass excludeID on updates so a
// row never conflicts with its own persisted value. Callers invoke this
// only for fields that are actually changing.
//
// This check is best-effort: two concurrent creates can both pass it before
// either commits. The unique indexes are the authoritative backstop and
// translateDuplicate maps their violations onto the same error type.
func checkUnique(tx *gorm.DB, model interface{}, kind, field string, value string, scope *uniqueScope, excludeID uuid.UUID) error {
	query := tx.Model(model).Where(fmt.Sprintf("%s = ?", field), value)
	if scope != nil {
		query = query.Where(fmt.Sprintf("%s = ?", scope.column), scope.parentID)
	}
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("uniqueness check failed: %w", err)
	}
	if count > 0 {
		return &DuplicateValueError{EntityKind: kind, Field: field, Value: value}
	}
	return nil
}

// uniqueCandidate is one (field, value) pair a write carried that a unique
// index could have rejected.
type uniqueCandidate struct {
	field string
	value string
	scope *uniqueScope
}

// translateDuplicate converts a unique-constraint rejection raised by the
// storage engine at write time into the catalog's own conflict error, so
// the race the application-level check cannot close still surfaces as a
// DuplicateValueError instead of a raw storage failure.
//
// TranslateError discards which constraint fired. When the write carried
// more than one unique value, each candidate is re-probed on the base
// connection (db, never the failed transaction) and the first one that
// still collides names the conflict; the first candidate is the fallback
// label when no probe matches.
func translateDuplicate(db *gorm.DB, err error, model interface{}, kind string, excludeID uuid.UUID, candidates ...uniqueCandidate) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	if len(candidates) == 0 {
		return err
	}
	if len(candidates) > 1 {
		for _, cand := range candidates {
			if probe := checkUnique(db, model, kind, cand.field, cand.value, cand.scope, excludeID); IsDuplicateValue(probe) {
				return probe
			}
		}
	}
	cand := candidates[0]
	return &DuplicateValueError{EntityKind: kind, Field: cand.field, Value: cand.value}
}

// lockForUpdate takes a row-level lock so check-then-act sequences on the
// same parent serialize. The sqlite databases used in tests reject FOR
// UPDATE and serialize writers on their own, so the clause is Postgres-only.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
