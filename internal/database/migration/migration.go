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

// createSteps build the current wardrobe_items layout from scratch.
var createSteps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_wardrobe_items",
		SQL: `CREATE TABLE IF NOT EXISTS wardrobe_items (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id       TEXT        NOT NULL,
  image_url     TEXT        NOT NULL,
  category      TEXT,
  primary_color TEXT,
  style_tag     TEXT,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_wardrobe_items_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_wardrobe_items_user_id ON wardrobe_items (user_id);`,
	},
	{
		Name: "create_index_wardrobe_items_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_wardrobe_items_created_at ON wardrobe_items (created_at);`,
	},
}

// upgradeSteps bring a legacy instance (color/style text columns, no category) up to
// the current layout without dropping the shadow columns; the schema-tolerant store
// keeps both generations consistent until the shadows are retired.
var upgradeSteps = []migrationStep{
	{
		Name: "add_column_category",
		SQL:  `ALTER TABLE wardrobe_items ADD COLUMN IF NOT EXISTS category TEXT;`,
	},
	{
		Name: "add_column_primary_color",
		SQL:  `ALTER TABLE wardrobe_items ADD COLUMN IF NOT EXISTS primary_color TEXT;`,
	},
	{
		Name: "add_column_style_tag",
		SQL:  `ALTER TABLE wardrobe_items ADD COLUMN IF NOT EXISTS style_tag TEXT;`,
	},
	{
		// The UPDATE must be built dynamically: referencing a column that does not
		// exist fails at parse time even behind a false predicate.
		Name: "backfill_primary_color_from_color",
		SQL: `DO $$
BEGIN
  IF EXISTS (SELECT 1 FROM information_schema.columns
             WHERE table_name = 'wardrobe_items' AND column_name = 'color') THEN
    EXECUTE 'UPDATE wardrobe_items SET primary_color = color WHERE primary_color IS NULL';
  END IF;
END $$;`,
	},
	{
		Name: "backfill_style_tag_from_style",
		SQL: `DO $$
BEGIN
  IF EXISTS (SELECT 1 FROM information_schema.columns
             WHERE table_name = 'wardrobe_items' AND column_name = 'style') THEN
    EXECUTE 'UPDATE wardrobe_items SET style_tag = style WHERE style_tag IS NULL';
  END IF;
END $$;`,
	},
}

// EnsureMigrated creates the wardrobe_items table if it is missing, or applies the
// legacy-to-current column upgrade when the table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.wardrobe_items') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	steps := createSteps
	if exists {
		steps = upgradeSteps
	}

	logJSON(loc, map[string]any{
		"component":    "database",
		"event":        "db_migration_start",
		"status":       "in_progress",
		"table_exists": exists,
		"db_host":      dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
