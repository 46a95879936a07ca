package fetchers

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/FEBEN-G/solar-challenge-week0/internal/dataset"
	"github.com/FEBEN-G/solar-challenge-week0/internal/storage"
)

// DataFetcher downloads raw station exports over HTTP
type DataFetcher struct {
	client *resty.Client
}

// NewDataFetcher creates a new data fetcher instance
func NewDataFetcher() *DataFetcher {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)

	return &DataFetcher{client: client}
}

// FetchResult records the outcome of one station download.
type FetchResult struct {
	Dataset string
	Path    string
	Bytes   int
	Err     error
}

// FetchAll downloads every catalog source that names a raw file and
// stores it under raw/ through the storage client. Sources download
// concurrently; a failed download is recorded in its result rather
// than aborting the batch.
func (f *DataFetcher) FetchAll(ctx context.Context, baseURL string, sources []dataset.Source, store storage.StorageClient) ([]FetchResult, error) {
	log.Printf("Fetching %d station exports from %s", len(sources), baseURL)

	type indexed struct {
		idx int
		res FetchResult
	}
	resultChan := make(chan indexed, len(sources))

	for i, src := range sources {
		go func(i int, src dataset.Source) {
			res := FetchResult{Dataset: src.Name}
			if src.RawFile == "" {
				res.Err = fmt.Errorf("no raw file configured for %s", src.Name)
				resultChan <- indexed{i, res}
				return
			}

			data, err := f.fetchCSV(ctx, baseURL, src.RawFile)
			if err != nil {
				res.Err = err
				resultChan <- indexed{i, res}
				return
			}

			path := "raw/" + src.RawFile
			if err := store.StoreFile(ctx, path, data); err != nil {
				res.Err = fmt.Errorf("failed to store %s: %w", path, err)
				resultChan <- indexed{i, res}
				return
			}

			res.Path = path
			res.Bytes = len(data)
			resultChan <- indexed{i, res}
		}(i, src)
	}

	results := make([]FetchResult, len(sources))
	for completed := 0; completed < len(sources); completed++ {
		select {
		case r := <-resultChan:
			if r.res.Err != nil {
				log.Printf("Fetch error: %s: %v", r.res.Dataset, r.res.Err)
			} else {
				log.Printf("Fetched %s (%d bytes)", r.res.Path, r.res.Bytes)
			}
			results[r.idx] = r.res
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return results, nil
}

// fetchCSV downloads one file and sanity-checks that it looks like a
// CSV export rather than an HTML error page.
func (f *DataFetcher) fetchCSV(ctx context.Context, baseURL, file string) ([]byte, error) {
	url := strings.TrimSuffix(baseURL, "/") + "/" + file

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/csv").
		Get(url)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", file, err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%s returned status %d", url, resp.StatusCode())
	}

	body := resp.Body()
	header, _, _ := bytes.Cut(body, []byte("\n"))
	if len(bytes.TrimSpace(body)) == 0 || !bytes.ContainsRune(header, ',') {
		return nil, fmt.Errorf("%s does not look like a CSV export", url)
	}

	return body, nil
}
