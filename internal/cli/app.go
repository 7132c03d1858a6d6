package cli

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ppiankov/fastbunkai/internal/boundary"
	"github.com/ppiankov/fastbunkai/internal/cache"
	"github.com/ppiankov/fastbunkai/internal/input"
	"github.com/ppiankov/fastbunkai/internal/model"
	"github.com/ppiankov/fastbunkai/internal/worker"
	"github.com/ppiankov/fastbunkai/pkg/bunkai"
)

// app wires the engine and its outer layers from one configuration
type app struct {
	cfg    *model.Config
	logger hclog.Logger
	policy boundary.Policy
	engine *bunkai.Engine
}

func newApp(cfg *model.Config) (*app, error) {
	logger := newLogger(cfg)

	policy := boundary.DefaultPolicy()
	if cfg.Engine.PolicyFile != "" {
		p, err := boundary.LoadPolicy(cfg.Engine.PolicyFile)
		if err != nil {
			return nil, err
		}
		policy = p
		logger.Debug("loaded boundary policy", "path", cfg.Engine.PolicyFile)
	}

	engine := bunkai.New(
		bunkai.WithPolicy(policy),
		bunkai.WithLogger(logger.Named("engine")),
		bunkai.WithLargeTextThreshold(cfg.Engine.LargeTextWarnBytes),
	)

	return &app{cfg: cfg, logger: logger, policy: policy, engine: engine}, nil
}

// loader builds an input loader honouring robots.txt and per-domain rates
func (a *app) loader(extra ...input.LoaderOption) *input.Loader {
	h := a.cfg.HTTP
	fetcher := input.NewFetcher(h.Timeout, h.UserAgent, h.MaxBodyBytes, h.InsecureTLS, h.HTTPProxy, h.HTTPSProxy, h.NoProxy)

	opts := []input.LoaderOption{
		input.WithLogger(a.logger.Named("input")),
		input.WithRateLimiter(worker.NewLimiter(a.cfg.RateLimiting.RequestsPerSecond, a.cfg.RateLimiting.BurstSize)),
	}
	if h.RespectRobots {
		opts = append(opts, input.WithRobots(input.NewRobotsChecker(h.UserAgent, h.Timeout)))
	}
	return input.NewLoader(fetcher, append(opts, extra...)...)
}

// store returns the segmentation cache, or nil when caching is disabled.
// Entries are namespaced by the rule layers and boundary policy in effect.
func (a *app) store() (*cache.Segmentations, error) {
	if !a.cfg.Cache.Enabled {
		return nil, nil
	}

	policyYAML, err := boundary.MarshalPolicy(a.policy)
	if err != nil {
		return nil, fmt.Errorf("marshal policy: %w", err)
	}
	namespace := strings.Join(a.engine.Layers(), ",") + "\n" + string(policyYAML)

	c := cache.NewLayeredCache(a.cfg.Cache.MemoryTTL, a.cfg.Cache.Dir, a.cfg.Cache.DiskTTL)
	return cache.NewSegmentations(c, namespace, 0), nil
}
