package utils

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type ExecType int

const (
	ExecInsert ExecType = iota
	ExecUpdate
	ExecDelete
)

var ErrNoRowsAffected = errors.New("no rows affected")

func ExecWithCheck(ctx context.Context, db *sqlx.DB, query string, execType ExecType, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	// inserts don't need the affected-rows check
	if execType == ExecInsert {
		return nil
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
