package session

import (
	"context"
	"fmt"
	"os"
)

// SnapshotSource supplies the tick's best-known session snapshot. The live
// simulator binding implements this against its shared-memory SDK; the core
// only ever pulls.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// FileSource reads the session-info YAML from a file on every pull. Useful
// for development and for replaying captured sessions without the simulator
// running.
type FileSource struct {
	Path string
}

// Snapshot re-reads the backing file. The player slot comes from the
// document's DriverInfo.DriverCarIdx; file replays carry no live telemetry,
// so positions stay empty.
func (f *FileSource) Snapshot(_ context.Context) (*Snapshot, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session snapshot: %w", err)
	}
	return &Snapshot{
		SessionInfo:  string(data),
		PlayerCarIdx: -1,
	}, nil
}
