package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matheusft/hackathon-evaluator/pkg/logger"
)

// httpClient wraps http.Client with a shared timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{
		client: &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

func (c *httpClient) postJSON(ctx context.Context, rawURL string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// fetchBatch retrieves the deterministic test-data batch for one pair.
func fetchBatch(ctx context.Context, client *httpClient, baseURL, participant, tag string) (*batchWire, error) {
	q := url.Values{}
	q.Set("participant_name", participant)
	q.Set("submission_tag", tag)

	resp, err := client.get(ctx, baseURL+"/api/test-data?"+q.Encode())
	if err != nil {
		return nil, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("test-data request failed with status %d", resp.StatusCode)
	}
	var batch batchWire
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode batch: %w", err)
	}
	return &batch, nil
}

// submitAll pushes submissions through a worker pool. Each response is fully
// processed before the next submission on that worker starts, matching how
// real clients interact with the synchronous API.
func submitAll(ctx context.Context, config *Config, client *httpClient, subs []submissionWire, stats *Stats) error {
	logger.Get().Info(ctx, "submitting results",
		logger.Int("count", len(subs)),
		logger.Int("workers", config.Workers))

	target := config.BaseURL + "/api/submit-results"

	var (
		sent     int64
		accepted int64
		rejected int64
		failed   int64
	)

	subChan := make(chan submissionWire, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range subChan {
				select {
				case <-ctx.Done():
					return
				default:
				}
				atomic.AddInt64(&sent, 1)
				switch submitOne(ctx, client, target, sub) {
				case "accepted":
					atomic.AddInt64(&accepted, 1)
				case "rejected":
					atomic.AddInt64(&rejected, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	go func() {
		defer close(subChan)
		for _, sub := range subs {
			select {
			case <-ctx.Done():
				return
			case subChan <- sub:
			}
		}
	}()

	wg.Wait()

	stats.SubmissionsSent = int(atomic.LoadInt64(&sent))
	stats.SubmissionsAccepted = int(atomic.LoadInt64(&accepted))
	stats.SubmissionsRejected = int(atomic.LoadInt64(&rejected))
	stats.SubmissionsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "submission run completed",
		logger.Int("accepted", stats.SubmissionsAccepted),
		logger.Int("rejected", stats.SubmissionsRejected),
		logger.Int("failed", stats.SubmissionsFailed))
	return nil
}

func submitOne(ctx context.Context, client *httpClient, target string, sub submissionWire) string {
	resp, err := client.postJSON(ctx, target, sub)
	if err != nil {
		return "failed"
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}
	switch resp.StatusCode {
	case http.StatusOK:
		var result submitResult
		if err := json.Unmarshal(body, &result); err == nil && result.Status == "success" {
			return "accepted"
		}
		return "accepted"
	case http.StatusBadRequest:
		return "rejected"
	default:
		return "failed"
	}
}

// retrieveRanks fetches the rank entry for every distinct participant.
func retrieveRanks(ctx context.Context, config *Config, client *httpClient, subs []submissionWire, stats *Stats) ([]Entry, error) {
	seen := make(map[string]struct{}, len(subs))
	names := make([]string, 0, len(subs))
	for _, sub := range subs {
		if _, ok := seen[sub.ParticipantName]; !ok {
			seen[sub.ParticipantName] = struct{}{}
			names = append(names, sub.ParticipantName)
		}
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during rank retrieval: %w", ctx.Err())
		default:
		}
		resp, err := client.get(ctx, config.BaseURL+"/api/rank/"+url.PathEscape(name))
		if err != nil {
			continue
		}
		body, err := readResponseBody(resp)
		if err != nil || resp.StatusCode != http.StatusOK {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(body, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	stats.RanksRetrieved = len(entries)
	logger.Get().Info(ctx, "retrieved ranks", logger.Int("count", len(entries)))
	return entries, nil
}

// getLeaderboard fetches the top-N leaderboard snapshot.
func getLeaderboard(ctx context.Context, config *Config, client *httpClient, stats *Stats) ([]Entry, error) {
	resp, err := client.get(ctx, fmt.Sprintf("%s/api/leaderboard?limit=%d", config.BaseURL, config.TopN))
	if err != nil {
		return nil, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leaderboard request failed with status %d", resp.StatusCode)
	}
	var result leaderboardResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	stats.LeaderboardEntries = len(result.Leaderboard)
	return result.Leaderboard, nil
}
