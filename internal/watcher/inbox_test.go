package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Rrens/legal-assistant/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingImporter struct {
	mu    sync.Mutex
	names []string
}

func (r *recordingImporter) ImportFiles(ctx context.Context, files []ingest.File) (*ingest.Result, error) {
	result := ingest.ParseBatch(ctx, files, 1)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range result.Documents {
		r.names = append(r.names, d.Title)
	}
	return &result, nil
}

func (r *recordingImporter) imported() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

func runInbox(t *testing.T, dir string, importer Importer) {
	t.Helper()

	inbox, err := New(dir, 20*time.Millisecond, importer)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, inbox.Run(ctx))
	}()

	t.Cleanup(func() {
		cancel()
		<-done
		inbox.Close()
	})
}

func TestInbox_ImportsNewFiles(t *testing.T) {
	dir := t.TempDir()
	importer := &recordingImporter{}
	runInbox(t, dir, importer)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "laudo.txt"), []byte("Laudo laboral"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignorado.pdf"), []byte("%PDF"), 0644))

	require.Eventually(t, func() bool {
		return len(importer.imported()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"laudo"}, importer.imported())

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, processedDir, "laudo.txt"))
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	_, err := os.Stat(filepath.Join(dir, "ignorado.pdf"))
	assert.NoError(t, err, "unsupported files stay in place")
}

func TestInbox_ImportsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "previo.md"), []byte("Sentencia previa"), 0644))

	importer := &recordingImporter{}
	runInbox(t, dir, importer)

	require.Eventually(t, func() bool {
		return len(importer.imported()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"previo"}, importer.imported())
}

func TestInbox_RejectsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	importer := &recordingImporter{}
	runInbox(t, dir, importer)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "vacio.txt"), nil, 0644))

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, rejectedDir, "vacio.txt"))
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, importer.imported())
}
