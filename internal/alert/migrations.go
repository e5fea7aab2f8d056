package alert

import (
	"database/sql"

	"github.com/HerbHall/roomsentry/internal/store"
)

func Migrations() []store.Migration {
	return []store.Migration{
		{
			Version:     1,
			Description: "create alerts table",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE IF NOT EXISTS alerts (
						id               TEXT PRIMARY KEY,
						room_id          TEXT NOT NULL,
						room_name        TEXT NOT NULL,
						sensor_id        TEXT NOT NULL DEFAULT '',
						sensor_category  TEXT NOT NULL DEFAULT '',
						type             TEXT NOT NULL,
						severity         TEXT NOT NULL,
						message          TEXT NOT NULL,
						triggering_value TEXT NOT NULL DEFAULT '',
						created_at       DATETIME NOT NULL,
						acknowledged     INTEGER NOT NULL DEFAULT 0,
						acknowledged_at  DATETIME,
						acknowledged_by  TEXT NOT NULL DEFAULT ''
					)`,
					`CREATE INDEX IF NOT EXISTS idx_alerts_dedup ON alerts(room_id, type, severity, acknowledged, created_at)`,
					`CREATE INDEX IF NOT EXISTS idx_alerts_room ON alerts(room_id, created_at)`,
					`CREATE INDEX IF NOT EXISTS idx_alerts_created ON alerts(created_at)`,
				}
				for _, stmt := range stmts {
					if _, err := tx.Exec(stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
