package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalAsset is one image selected for a listing. ID is assigned at
// selection time so results can be mapped back to their source even when
// the same file is picked twice.
type LocalAsset struct {
	ID   string
	Path string
}

// NewLocalAsset tags a file path with a fresh asset id.
func NewLocalAsset(path string) LocalAsset {
	return LocalAsset{ID: uuid.NewString(), Path: path}
}

// Name returns the file name sent to the upload endpoint.
func (a LocalAsset) Name() string {
	return filepath.Base(a.Path)
}

// Result is the outcome of one asset's upload. Exactly one of URL and Err
// is set.
type Result struct {
	AssetID string
	URL     string
	Err     error
}

// Uploader sends a single image and returns its published URL.
// *foodshare.Client implements it.
type Uploader interface {
	UploadImage(ctx context.Context, name string, r io.Reader) (string, error)
}

// Pipeline uploads selected assets one at a time. The unit of atomicity is
// the individual image: one failure is recorded in its Result and the
// remaining assets still upload, so a flaky network costs photos rather
// than the whole listing.
type Pipeline struct {
	uploader Uploader
}

// NewPipeline builds a Pipeline over the given uploader.
func NewPipeline(uploader Uploader) *Pipeline {
	return &Pipeline{uploader: uploader}
}

// UploadAll uploads every asset sequentially, preserving input order. It
// returns exactly one Result per asset and never aborts the batch; the
// only error it can itself return is a nil uploader.
func (p *Pipeline) UploadAll(ctx context.Context, assets []LocalAsset) ([]Result, error) {
	if p == nil || p.uploader == nil {
		return nil, fmt.Errorf("pipeline has no uploader")
	}
	results := make([]Result, 0, len(assets))
	for _, asset := range assets {
		results = append(results, p.uploadOne(ctx, asset))
	}
	return results, nil
}

func (p *Pipeline) uploadOne(ctx context.Context, asset LocalAsset) Result {
	result := Result{AssetID: asset.ID}

	file, err := os.Open(asset.Path)
	if err != nil {
		result.Err = fmt.Errorf("open image: %w", err)
		return result
	}
	defer func() { _ = file.Close() }()

	url, err := p.uploader.UploadImage(ctx, asset.Name(), file)
	if err != nil {
		result.Err = fmt.Errorf("upload %s: %w", asset.Name(), err)
		return result
	}
	result.URL = url
	return result
}

// Succeeded filters results down to the uploaded URLs, preserving order.
// Failed uploads are never included.
func Succeeded(results []Result) []string {
	var urls []string
	for _, r := range results {
		if r.Err == nil && r.URL != "" {
			urls = append(urls, r.URL)
		}
	}
	return urls
}

// Failed filters results down to the failures, preserving order.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
