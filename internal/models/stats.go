package models

import "time"

// Window is a named look-back period used for packet loss averages
type Window struct {
	Label    string        `json:"label"`
	Duration time.Duration `json:"-"`
}

// Windows are the periods shown on the status page, shortest first
var Windows = []Window{
	{Label: "Last 15 minutes", Duration: 15 * time.Minute},
	{Label: "Last 30 minutes", Duration: 30 * time.Minute},
	{Label: "Last hour", Duration: time.Hour},
	{Label: "Last day", Duration: 24 * time.Hour},
	{Label: "Last week", Duration: 7 * 24 * time.Hour},
}

// WindowAverage is the average packet loss of a connection over one window
type WindowAverage struct {
	Window     string  `json:"window"`
	PacketLoss float64 `json:"packet_loss"`
}

// ConnectionSummary groups the averages for one connection
type ConnectionSummary struct {
	ConnectionName string          `json:"connection_name"`
	Averages       []WindowAverage `json:"averages"`
}

// LossPoint is a single point of the packet loss over time chart
type LossPoint struct {
	Time       time.Time
	PacketLoss float64
}
