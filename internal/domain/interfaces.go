package domain

import "context"

// EventPublisher decouples transition side effects from their producers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// SyncWorker accepts snapshot mirror tasks. Implementations are nil-safe at
// the call sites: services treat a missing worker as "mirroring disabled".
type SyncWorker interface {
	EnqueueSnapshot(ctx context.Context, sheet string, header []string, rows [][]interface{}) error
}

// SheetsWriter applies a snapshot to one spreadsheet sheet.
type SheetsWriter interface {
	ReplaceSheet(ctx context.Context, sheetTitle string, header []string, rows [][]interface{}) error
}
