package database

import (
	"database/sql"
	"fmt"
	"time"

	"traceroute-monitor/internal/models"
)

// SaveResult inserts a traceroute result and returns its row id
func (db *DB) SaveResult(result models.TracerouteResult) (int64, error) {
	query := `
        INSERT INTO traceroute_results (timestamp, connection_name, target_ip, packet_loss)
        VALUES (?, ?, ?, ?)
    `
	res, err := db.Exec(query,
		result.Timestamp,
		result.ConnectionName,
		result.TargetIP,
		result.PacketLoss,
	)
	if err != nil {
		return 0, fmt.Errorf("insert result: %w", err)
	}
	return res.LastInsertId()
}

// AveragePacketLoss returns the mean packet loss recorded for a connection
// since the given time. A window with no rows averages to 0.
func (db *DB) AveragePacketLoss(since time.Time, connectionName string) (float64, error) {
	query := `
        SELECT AVG(packet_loss) FROM traceroute_results
        WHERE timestamp >= ? AND connection_name = ?
    `

	var avg sql.NullFloat64
	if err := db.Get(&avg, query, since.Unix(), connectionName); err != nil {
		return 0, fmt.Errorf("average packet loss: %w", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

// LossSeries returns loss values for a connection in time order
func (db *DB) LossSeries(since time.Time, connectionName string) ([]models.LossPoint, error) {
	query := `
        SELECT timestamp, packet_loss FROM traceroute_results
        WHERE timestamp >= ? AND connection_name = ? AND packet_loss IS NOT NULL
        ORDER BY timestamp ASC, id ASC
    `

	var rows []struct {
		Timestamp  int64   `db:"timestamp"`
		PacketLoss float64 `db:"packet_loss"`
	}
	if err := db.Select(&rows, query, since.Unix(), connectionName); err != nil {
		return nil, fmt.Errorf("loss series: %w", err)
	}

	points := make([]models.LossPoint, 0, len(rows))
	for _, r := range rows {
		points = append(points, models.LossPoint{
			Time:       time.Unix(r.Timestamp, 0),
			PacketLoss: r.PacketLoss,
		})
	}
	return points, nil
}

// GetRecent retrieves recent results for a connection, newest first.
// An empty connection name matches every connection.
func (db *DB) GetRecent(since time.Time, connectionName string) ([]models.TracerouteResult, error) {
	query := `
        SELECT id, timestamp, COALESCE(connection_name, '') AS connection_name,
               COALESCE(target_ip, '') AS target_ip, packet_loss
        FROM traceroute_results
        WHERE timestamp >= ? AND (? = '' OR connection_name = ?)
        AND packet_loss IS NOT NULL
        ORDER BY timestamp DESC, id DESC
        LIMIT 10000
    `

	results := []models.TracerouteResult{}
	if err := db.Select(&results, query, since.Unix(), connectionName, connectionName); err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}
	return results, nil
}

// ConnectionNames lists the distinct connection names that have results
func (db *DB) ConnectionNames() ([]string, error) {
	names := []string{}
	err := db.Select(&names, `
        SELECT DISTINCT connection_name FROM traceroute_results
        WHERE connection_name IS NOT NULL
        ORDER BY connection_name
    `)
	if err != nil {
		return nil, fmt.Errorf("connection names: %w", err)
	}
	return names, nil
}
