package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
)

type scriptedUploader struct {
	calls []string
	fail  map[string]error
}

func (u *scriptedUploader) UploadImage(ctx context.Context, name string, r io.Reader) (string, error) {
	u.calls = append(u.calls, name)
	if err := u.fail[name]; err != nil {
		return "", err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	return "https://cdn.example/" + name, nil
}

func writeAsset(t *testing.T, dir, name string) LocalAsset {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("img:"+name), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	return NewLocalAsset(path)
}

func TestUploadAll_OneResultPerAssetInOrder(t *testing.T) {
	dir := t.TempDir()
	assets := []LocalAsset{
		writeAsset(t, dir, "a.jpg"),
		writeAsset(t, dir, "b.jpg"),
		writeAsset(t, dir, "c.jpg"),
	}

	uploader := &scriptedUploader{}
	p := NewPipeline(uploader)

	results, err := p.UploadAll(context.Background(), assets)
	if err != nil {
		t.Fatalf("UploadAll returned error: %v", err)
	}
	if len(results) != len(assets) {
		t.Fatalf("got %d results, want %d", len(results), len(assets))
	}
	for i, r := range results {
		if r.AssetID != assets[i].ID {
			t.Fatalf("result %d asset = %q, want %q", i, r.AssetID, assets[i].ID)
		}
		if r.Err != nil {
			t.Fatalf("result %d error = %v, want nil", i, r.Err)
		}
		if r.URL != "https://cdn.example/"+assets[i].Name() {
			t.Fatalf("result %d url = %q", i, r.URL)
		}
	}
	if fmt.Sprint(uploader.calls) != "[a.jpg b.jpg c.jpg]" {
		t.Fatalf("upload order = %v, want input order", uploader.calls)
	}
}

func TestUploadAll_FailureDoesNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	assets := []LocalAsset{
		writeAsset(t, dir, "a.jpg"),
		writeAsset(t, dir, "b.jpg"),
		writeAsset(t, dir, "c.jpg"),
	}

	uploader := &scriptedUploader{fail: map[string]error{"b.jpg": errors.New("connection reset")}}
	p := NewPipeline(uploader)

	results, err := p.UploadAll(context.Background(), assets)
	if err != nil {
		t.Fatalf("UploadAll returned error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	for i, r := range results {
		gotURL := r.URL != ""
		gotErr := r.Err != nil
		if gotURL == gotErr {
			t.Fatalf("result %d = %#v, want exactly one of url/err", i, r)
		}
	}
	if results[1].Err == nil {
		t.Fatal("result for b.jpg has no error, want failure recorded")
	}

	urls := Succeeded(results)
	if len(urls) != 2 || urls[0] != "https://cdn.example/a.jpg" || urls[1] != "https://cdn.example/c.jpg" {
		t.Fatalf("Succeeded = %v, want a.jpg then c.jpg", urls)
	}

	failed := Failed(results)
	if len(failed) != 1 || failed[0].AssetID != assets[1].ID {
		t.Fatalf("Failed = %#v, want only b.jpg", failed)
	}
}

func TestUploadAll_MissingFileRecordedPerAsset(t *testing.T) {
	dir := t.TempDir()
	present := writeAsset(t, dir, "here.jpg")
	missing := NewLocalAsset(filepath.Join(dir, "gone.jpg"))

	p := NewPipeline(&scriptedUploader{})
	results, err := p.UploadAll(context.Background(), []LocalAsset{missing, present})
	if err != nil {
		t.Fatalf("UploadAll returned error: %v", err)
	}
	if results[0].Err == nil {
		t.Fatal("missing file result has no error")
	}
	if results[1].Err != nil || results[1].URL == "" {
		t.Fatalf("present file result = %#v, want uploaded", results[1])
	}
}

func TestUploadAll_EmptySelection(t *testing.T) {
	p := NewPipeline(&scriptedUploader{})
	results, err := p.UploadAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("UploadAll returned error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("results = %#v, want none", results)
	}
}

func TestNewLocalAsset_AssignsDistinctIDs(t *testing.T) {
	a := NewLocalAsset("/tmp/x.jpg")
	b := NewLocalAsset("/tmp/x.jpg")
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("asset ids = %q, %q, want distinct non-empty", a.ID, b.ID)
	}
	if a.Name() != "x.jpg" {
		t.Fatalf("Name() = %q, want x.jpg", a.Name())
	}
}
