package models

import "time"

// TracerouteResult is one row of the traceroute_results table
type TracerouteResult struct {
	ID             int64   `db:"id" json:"id"`
	Timestamp      int64   `db:"timestamp" json:"timestamp"` // epoch seconds
	ConnectionName string  `db:"connection_name" json:"connection_name"`
	TargetIP       string  `db:"target_ip" json:"target_ip"`
	PacketLoss     float64 `db:"packet_loss" json:"packet_loss"` // percentage
}

// Time returns the row timestamp as a time.Time
func (r TracerouteResult) Time() time.Time {
	return time.Unix(r.Timestamp, 0)
}

// Probe is the outcome of a single mtr run on one interface
type Probe struct {
	ConnectionName string
	Interface      string
	TargetIP       string
	Timestamp      time.Time
	PacketLoss     float64
	HasLoss        bool // false when no hop produced a usable loss value
}

// Result converts a probe into a row ready to be stored
func (p Probe) Result() TracerouteResult {
	return TracerouteResult{
		Timestamp:      p.Timestamp.Unix(),
		ConnectionName: p.ConnectionName,
		TargetIP:       p.TargetIP,
		PacketLoss:     p.PacketLoss,
	}
}
