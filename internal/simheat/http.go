package simheat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/heatcast/internal/domain/heat"
	"github.com/okian/heatcast/pkg/logger"
)

// HTTP status codes the service answers scoring requests with.
const (
	statusOK       = http.StatusOK
	statusCreated  = http.StatusCreated
	statusAccepted = http.StatusAccepted
	statusConflict = http.StatusConflict
)

const submissionChannelMultiplier = 2

// httpClient wraps http.Client with a request timeout.
type httpClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *httpClient {
	return &httpClient{
		client: &http.Client{Timeout: timeout},
	}
}

// get performs a GET request.
func (c *httpClient) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// post performs a POST request with a JSON body.
func (c *httpClient) post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// drainAndClose reads and closes the response body.
func drainAndClose(resp *http.Response) []byte {
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return body
}

// createHeat posts the heat creation command and fails on anything but
// 201.
func createHeat(ctx context.Context, client *httpClient, config *Config, riderIDs []string) error {
	payload := createPayload{
		HeatID:   config.HeatID,
		RiderIDs: riderIDs,
		Rules: heat.Rules{
			WavesCounting: config.WavesCounting,
			JumpsCounting: config.JumpsCounting,
		},
	}

	resp, err := client.post(ctx, config.BaseURL+"/heats", payload)
	if err != nil {
		return fmt.Errorf("create heat request failed: %w", err)
	}
	body := drainAndClose(resp)
	if resp.StatusCode != statusCreated {
		return fmt.Errorf("create heat returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	logger.Get().Info(ctx, "heat created",
		logger.String("heatID", config.HeatID),
		logger.Int("riders", len(riderIDs)))
	return nil
}

// submitScores posts every submission concurrently using a worker pool.
func submitScores(ctx context.Context, config *Config, subs []submission, stats *Stats) error {
	logger.Get().Info(ctx, "submitting scores",
		logger.Int("scores", len(subs)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)

	var (
		accepted  int64
		duplicate int64
		failed    int64
		submitted int64
	)

	subChan := make(chan submission, config.Workers*submissionChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sub := range subChan {
				if ctx.Err() != nil {
					return
				}
				url := config.BaseURL + "/heats/" + config.HeatID + "/" + sub.suffix
				result := submitSingleScore(ctx, client, url, sub.payload)

				atomic.AddInt64(&submitted, 1)
				switch result {
				case "accepted":
					atomic.AddInt64(&accepted, 1)
				case "duplicate":
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "score rejected",
							logger.String("scoreUUID", sub.payload.ScoreUUID),
							logger.String("rider", sub.payload.RiderID))
					}
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

	stats.ScoresSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ScoresAccepted = int(atomic.LoadInt64(&accepted))
	stats.ScoresDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.ScoresFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "score submission completed",
		logger.Int("accepted", stats.ScoresAccepted),
		logger.Int("duplicate", stats.ScoresDuplicate),
		logger.Int("failed", stats.ScoresFailed))
	return nil
}

// submitSingleScore posts one score and classifies the outcome.
func submitSingleScore(ctx context.Context, client *httpClient, url string, payload scorePayload) string {
	resp, err := client.post(ctx, url, payload)
	if err != nil {
		return "failed"
	}
	drainAndClose(resp)

	switch resp.StatusCode {
	case statusAccepted:
		return "accepted"
	case statusConflict:
		// Same score UUID landed twice; the service kept the first.
		return "duplicate"
	default:
		return "failed"
	}
}
