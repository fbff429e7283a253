package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_submissions",
		SQL: `CREATE TABLE IF NOT EXISTS submissions (
  id           UUID        PRIMARY KEY,
  content_id   TEXT        NOT NULL,
  filename     TEXT        NOT NULL,
  content_type TEXT        NOT NULL,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  registered   BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_submissions_content_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_submissions_content_id ON submissions (content_id);`,
	},
	{
		Name: "create_index_submissions_registered",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_submissions_registered ON submissions (registered) WHERE registered = FALSE;`,
	},
}

// EnsureMigrated checks whether the submissions table exists and runs the
// schema steps if it does not.
func EnsureMigrated(ctx context.Context, db *sql.DB) error {
	start := time.Now()

	var exists bool
	const query = "SELECT to_regclass('public.submissions') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		logJSON(map[string]any{
			"event":         "db_migration_failed",
			"level":         "error",
			"error_message": err.Error(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(map[string]any{
			"event": "db_migration_skip",
			"msg":   "schema already exists, skipping migration",
		})
		return nil
	}

	for _, step := range steps {
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			logJSON(map[string]any{
				"event":          "db_migration_failed",
				"level":          "error",
				"migration_step": step.Name,
				"error_message":  err.Error(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
	}

	logJSON(map[string]any{
		"event":       "db_migration_success",
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		data["level"] = "info"
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
