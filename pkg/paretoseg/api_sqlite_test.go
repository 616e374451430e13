//go:build !nosqlite

package paretoseg

import (
	"context"
	"path/filepath"
	"testing"
)

func TestClientPersistsRunsInSQLite(t *testing.T) {
	base := t.TempDir()
	opts := Options{
		StoreKind:    "sqlite",
		DBPath:       filepath.Join(base, "runs.db"),
		ArtifactsDir: filepath.Join(base, "runs"),
	}
	ctx := context.Background()

	client, err := New(ctx, opts)
	if err != nil {
		t.Fatalf("new sqlite client: %v", err)
	}
	req := testRequest(writeTestImage(t, base))
	req.SkipImages = true
	summary, err := client.Run(ctx, req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := New(ctx, opts)
	if err != nil {
		t.Fatalf("reopen sqlite client: %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})
	skyline, err := reopened.Skyline(ctx, RunLookup{RunID: summary.RunID})
	if err != nil {
		t.Fatalf("skyline: %v", err)
	}
	if len(skyline) != summary.SkylineSize {
		t.Fatalf("expected %d skyline members, got %d", summary.SkylineSize, len(skyline))
	}
	for _, member := range skyline {
		if member.RunID != summary.RunID || member.Segments < 1 {
			t.Fatalf("unexpected skyline member: %+v", member)
		}
	}
}
