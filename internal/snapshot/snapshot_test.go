package snapshot_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"

	"github.com/TG-Note-App/game-be/internal/player"
	"github.com/TG-Note-App/game-be/internal/snapshot"
)

func TestObjectName(t *testing.T) {
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	assert.Equal(t, "players/42/0f8fad5b-d9cb-469f-a165-70867728950e.json", snapshot.ObjectName(42, id))
}

func TestEncode(t *testing.T) {
	p := player.New(42)
	p.Username = "alice"
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	data, err := snapshot.Encode(p, at)
	require.NoError(t, err)

	var decoded struct {
		Player     map[string]any `json:"player"`
		ArchivedAt time.Time      `json:"archived_at"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "alice", decoded.Player["username"])
	assert.Equal(t, "0", decoded.Player["oxy_balance"])
	assert.True(t, at.Equal(decoded.ArchivedAt))
}

func TestMinioArchiver_Archive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()

	container, err := tcminio.Run(ctx, "minio/minio:RELEASE.2024-01-16T16-07-38Z")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	archiver, err := snapshot.NewMinioArchiver(snapshot.Config{
		Endpoint:  endpoint,
		AccessKey: container.Username,
		SecretKey: container.Password,
		Bucket:    "player-snapshots",
	})
	require.NoError(t, err)

	p := player.New(7)
	p.Username = "bob"
	link, err := archiver.Archive(ctx, p)
	require.NoError(t, err)
	assert.Contains(t, link, "/player-snapshots/players/7/")

	resp, err := http.Get(link)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"username":"bob"`)

	// The bucket already exists on the second call.
	_, err = archiver.Archive(ctx, p)
	require.NoError(t, err)
}
