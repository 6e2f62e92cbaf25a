package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docforge/docforge/internal/testutil"
)

func TestWatchInvalidatesOnTemplateRewrite(t *testing.T) {
	dir := t.TempDir()
	body := testutil.Paragraph("Venue: {{Venue_Name}}")
	path := filepath.Join(dir, "cancelVenue.docx")
	if err := os.WriteFile(path, testutil.MinimalDocx(t, body), 0o644); err != nil {
		t.Fatal(err)
	}

	r := New(WithTemplatesDir(dir))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := r.Metadata(ctx, "cancel-venue"); err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- r.Watch(ctx)
	}()

	// The watcher registers asynchronously, so keep rewriting the template
	// until the invalidation is observed.
	rewritten := testutil.MinimalDocx(t, testutil.Paragraph("Venue: {{Venue_Address}}"))
	deadline := time.Now().Add(5 * time.Second)
	for {
		if err := os.WriteFile(path, rewritten, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(50 * time.Millisecond)

		r.mu.RLock()
		_, cached := r.metaCache["cancel-venue"]
		r.mu.RUnlock()
		if !cached {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cached schema not invalidated after template rewrite")
		}
	}

	fields, err := r.Metadata(ctx, "cancel-venue")
	if err != nil {
		t.Fatalf("Metadata() error after rewrite = %v", err)
	}
	if len(fields) != 1 || fields[0].Name != "Venue_Address" {
		t.Errorf("Metadata() after rewrite = %+v, want single Venue_Address field", fields)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Watch() returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not stop after context cancellation")
	}
}
