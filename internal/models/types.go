package models

import (
	"context"
	"time"
)

// Database interface defines operations for data persistence
type Database interface {
	SaveResult(result TracerouteResult) (int64, error)
	AveragePacketLoss(since time.Time, connectionName string) (float64, error)
	LossSeries(since time.Time, connectionName string) ([]LossPoint, error)
	GetRecent(since time.Time, connectionName string) ([]TracerouteResult, error)
	ConnectionNames() ([]string, error)
	Close() error
}

// Tracer interface defines traceroute execution operations
type Tracer interface {
	Trace(ctx context.Context, target, iface string) (output string, err error)
}

// PageWriter regenerates the published status page
type PageWriter interface {
	Refresh(ctx context.Context) error
}
