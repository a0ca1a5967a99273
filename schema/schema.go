package schema

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var script string

// Ensure создает таблицы и индексы, если их еще нет. Версий схемы нет:
// скрипт целиком идемпотентен.
func Ensure(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, script); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
