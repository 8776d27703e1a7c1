package provision

import (
	"net/http"
	"time"
)

// networkTimeout bounds the reachability probe; every other external call in
// the run blocks without a timeout.
const networkTimeout = 5 * time.Second

// networkStep probes the configured reachability URL with a short HEAD
// request. It exists purely to set expectations about the downloads that
// follow: an unreachable network is reported and the run continues.
type networkStep struct {
	// client overrides the default probe client in tests.
	client *http.Client
}

func (s *networkStep) Name() string { return "network reachability check" }

func (s *networkStep) Run(ctx *Context) Result {
	client := s.client
	if client == nil {
		client = &http.Client{Timeout: networkTimeout}
	}

	url := ctx.Config.ReachabilityURL
	resp, err := client.Head(url)
	if err != nil {
		return warning("Network check against " + url + " failed; downloads may be slow or fail. Continuing anyway.")
	}
	_ = resp.Body.Close()

	return ok("Network is reachable.")
}
