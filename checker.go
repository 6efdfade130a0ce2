package updates

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/jedisct1/go-minisign"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rly0nheart/updates/internal/cache"
	"github.com/rly0nheart/updates/internal/registry"
	"github.com/rly0nheart/updates/pkg/version"
)

// Version is the library's own version, reported in the User-Agent of
// registry requests.
const Version = "0.1.0"

// versionSource is the registry collaborator. Tests substitute fakes.
type versionSource interface {
	Versions(name string) ([]registry.Version, error)
}

// Checker answers whether a newer version of a crate is published. It is
// safe for concurrent use; simultaneous checks of the same crate and version
// share one registry round trip.
type Checker struct {
	bypass bool
	cache  *cache.Cache
	source versionSource
	log    *zap.Logger
	group  singleflight.Group

	configPath   string
	registryBase string
	timeout      time.Duration
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets a logger for diagnostics. The checker never fails its
// caller, so swallowed errors (transport, cache IO, bad timestamps) surface
// only here, at debug level. Defaults to a nop logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Checker) { c.log = log }
}

// WithConfigFile points the checker at a JSON configuration file. A missing
// or invalid file degrades to built-in defaults.
func WithConfigFile(path string) Option {
	return func(c *Checker) { c.configPath = path }
}

// WithRegistryBase overrides the registry host, taking precedence over both
// the UPDATES_REGISTRY_BASE environment variable and any config file.
func WithRegistryBase(base string) Option {
	return func(c *Checker) { c.registryBase = base }
}

// WithTimeout overrides the per-request registry timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.timeout = d }
}

// WithCache substitutes the result cache, letting tests point independent
// checkers at distinct temporary files.
func WithCache(rc *cache.Cache) Option {
	return func(c *Checker) { c.cache = rc }
}

// New creates a Checker. With bypass true every Check queries the registry;
// otherwise results are served from the shared cache for up to an hour.
func New(bypass bool, opts ...Option) *Checker {
	c := &Checker{
		bypass: bypass,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	cfg := loadConfig(c.configPath, c.log)

	if c.registryBase == "" {
		c.registryBase = resolveRegistryBase(cfg)
	}
	if c.timeout == 0 {
		c.timeout = registry.DefaultTimeout
		if cfg.TimeoutSeconds > 0 {
			c.timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
	}

	if c.cache == nil {
		path := cfg.CachePath
		if path == "" {
			path = cache.DefaultPath()
		}
		ttl := cache.DefaultTTL
		if cfg.CacheTTLSeconds > 0 {
			ttl = time.Duration(cfg.CacheTTLSeconds) * time.Second
		}
		c.cache = cache.New(path, ttl, cache.WithLogger(c.log))
	}

	if c.source == nil {
		clientOpts := []registry.Option{
			registry.WithTimeout(c.timeout),
			registry.WithLogger(c.log),
		}
		if cfg.MinisignKey != "" {
			if key, err := minisign.NewPublicKey(cfg.MinisignKey); err == nil {
				clientOpts = append(clientOpts, registry.WithPublicKey(key))
			} else {
				c.log.Debug("invalid minisign key in config", zap.Error(err))
			}
		}
		c.source = registry.NewClient(c.registryBase, registry.UserAgent(Version), clientOpts...)
	}

	return c
}

// Check reports whether a newer version of the named crate than running is
// published. It returns nil when the crate is current, when the registry is
// unreachable, or when no eligible candidate exists; a broken network never
// blocks the embedding application.
func (c *Checker) Check(name, running string) *Result {
	if !c.bypass {
		if rec, ok := c.cache.Get(name, running); ok {
			return resultFromRecord(rec)
		}
	}

	v, _, _ := c.group.Do(name+"\x00"+running, func() (any, error) {
		res := c.query(name, running)
		c.cache.Put(name, running, recordFromResult(res))
		c.cache.Save()
		return res, nil
	})
	res, _ := v.(*Result)
	return res
}

// query fetches the crate's version list and selects the best candidate.
func (c *Checker) query(name, running string) *Result {
	// A pre-release caller is willing to hear about other pre-releases; a
	// stable caller only wants stable candidates.
	includePrereleases := !version.IsStandardRelease(running)

	published, err := c.source.Versions(name)
	if err != nil {
		c.log.Debug("registry query failed", zap.String("crate", name), zap.Error(err))
		return nil
	}

	type candidate struct {
		registry.Version
		key version.Key
	}
	candidates := make([]candidate, 0, len(published))
	for _, v := range published {
		if v.Yanked {
			continue
		}
		candidates = append(candidates, candidate{Version: v, key: version.Tokenize(v.Num)})
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].key.Compare(candidates[j].key) > 0
	})

	for _, cand := range candidates {
		if !includePrereleases && !version.IsStandardRelease(cand.Num) {
			continue
		}
		if version.Compare(running, cand.Num) >= 0 {
			return nil
		}
		return newResult(name, running, cand.Num, cand.CreatedAt)
	}
	return nil
}

// Check is the one-shot convenience: it runs a single cached check and, if
// an update is available, prints the notice to stderr.
//
//	updates.Check("my-tool", "1.0.0", false)
func Check(name, running string, bypass bool) {
	if res := New(bypass).Check(name, running); res != nil {
		fmt.Fprintln(os.Stderr, res)
	}
}
