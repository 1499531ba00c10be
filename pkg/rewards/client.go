package rewards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Notifier defines contract for the external economy/rewards subsystem.
// Calls are advisory: the caller treats failures as non-fatal.
type Notifier interface {
	// AddRewards credits xp to the user on the rewards side.
	AddRewards(ctx context.Context, userID uuid.UUID, xp int) error
}

type httpNotifier struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPNotifier creates the rewards-service-backed implementation of Notifier.
// baseURL points at the users/rewards service (e.g. http://localhost:3011).
func NewHTTPNotifier(baseURL string) Notifier {
	return &httpNotifier{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (n *httpNotifier) AddRewards(ctx context.Context, userID uuid.UUID, xp int) error {
	payload, err := json.Marshal(map[string]int{"xp": xp})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/users/%s/add-rewards", n.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("rewards service returned status %d", resp.StatusCode)
	}

	return nil
}
