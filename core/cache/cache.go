// Package cache provides the pricing result cache.
//
// Keys derive only from the price-relevant subset of a request, so two
// requests from different customers at the same location with the same
// fleet share an entry. Stored and returned results are deep copies;
// callers can never mutate cached state.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"genquote/core/types"
	"genquote/internal/config"
	"genquote/internal/logging"
	"genquote/internal/metrics"
)

// keyFields is the price-relevant request subset that feeds the key.
// Customer identity fields (name, email, phone) are deliberately
// absent.
type keyFields struct {
	Generators     []keyGenerator       `json:"generators"`
	Services       []string             `json:"services"`
	ContractMonths int                  `json:"contract_months"`
	FacilityType   string               `json:"facility_type"`
	TaxKey         string               `json:"tax_key"`
	Frequencies    map[string]float64   `json:"frequencies,omitempty"`
	Options        types.ServiceOptions `json:"options"`
	Mode           string               `json:"mode"`
}

type keyGenerator struct {
	KW        float64 `json:"kw"`
	Quantity  int     `json:"quantity"`
	Cylinders int     `json:"cylinders"`
	Injector  string  `json:"injector"`
}

// Key derives the deterministic cache key for a request. Service order
// and generator order never affect the key.
func Key(req *types.PricingRequest) string {
	fields := keyFields{
		ContractMonths: req.ContractMonths,
		FacilityType:   string(req.FacilityType),
		TaxKey:         req.Customer.TaxKey(),
		Options:        req.Options,
		Mode:           string(req.Mode),
	}

	for _, code := range req.Services {
		fields.Services = append(fields.Services, string(code))
	}
	sort.Strings(fields.Services)

	for _, gen := range req.Generators {
		fields.Generators = append(fields.Generators, keyGenerator{
			KW:        gen.KW,
			Quantity:  gen.Quantity,
			Cylinders: gen.Cylinders,
			Injector:  string(gen.Injector),
		})
	}
	sort.Slice(fields.Generators, func(i, j int) bool {
		a, b := fields.Generators[i], fields.Generators[j]
		if a.KW != b.KW {
			return a.KW < b.KW
		}
		if a.Quantity != b.Quantity {
			return a.Quantity < b.Quantity
		}
		if a.Cylinders != b.Cylinders {
			return a.Cylinders < b.Cylinders
		}
		return a.Injector < b.Injector
	})

	if len(req.FrequencyOverrides) > 0 {
		fields.Frequencies = make(map[string]float64, len(req.FrequencyOverrides))
		for code, freq := range req.FrequencyOverrides {
			fields.Frequencies[string(code)] = freq
		}
	}

	// Map keys marshal sorted, so the encoding is canonical.
	payload, err := json.Marshal(fields)
	if err != nil {
		// The field set is plain data; marshal cannot fail. Fall back
		// to an uncacheable key rather than panic.
		return "uncacheable-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

type entry struct {
	result     *types.PricingResult
	storedAt   time.Time
	lastAccess time.Time
}

// Cache is a bounded TTL + LRU result cache
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	capacity int
	ttl      time.Duration
	enabled  bool
	logger   *zap.Logger

	hits      uint64
	misses    uint64
	evictions uint64
}

// New builds a cache from configuration
func New(cfg config.CacheConfig) *Cache {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 256
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		entries:  make(map[string]*entry),
		capacity: capacity,
		ttl:      ttl,
		enabled:  cfg.Enabled,
		logger:   logging.Component("cache"),
	}
}

// Get returns a deep copy of the cached result, or nil on a miss.
// Expired entries count as misses and are removed.
func (c *Cache) Get(key string) *types.PricingResult {
	if !c.enabled {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		metrics.CacheMisses.Inc()
		return nil
	}
	if time.Since(e.storedAt) > c.ttl {
		delete(c.entries, key)
		c.evictions++
		c.misses++
		metrics.CacheEvictions.Inc()
		metrics.CacheMisses.Inc()
		return nil
	}
	e.lastAccess = time.Now()
	c.hits++
	metrics.CacheHits.Inc()
	return e.result.Clone()
}

// Set stores a deep copy of the result, evicting the least recently
// used entry when at capacity.
func (c *Cache) Set(key string, result *types.PricingResult) {
	if !c.enabled || result == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	now := time.Now()
	c.entries[key] = &entry{
		result:     result.Clone(),
		storedAt:   now,
		lastAccess: now,
	}
}

// evictOldestLocked removes the entry with the stalest access time.
// Caller holds the mutex.
func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.lastAccess.Before(oldest) {
			oldestKey = key
			oldest = e.lastAccess
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.evictions++
		metrics.CacheEvictions.Inc()
	}
}

// Prune removes every expired entry and returns the count removed
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if time.Since(e.storedAt) > c.ttl {
			delete(c.entries, key)
			c.evictions++
			metrics.CacheEvictions.Inc()
			removed++
		}
	}
	if removed > 0 {
		c.logger.Debug("pruned expired entries", zap.Int("removed", removed))
	}
	return removed
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Stats is a point-in-time snapshot of cache effectiveness
type Stats struct {
	Entries   int     `json:"entries"`
	Capacity  int     `json:"capacity"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
}

// Stats returns current counters
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Entries:   len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// String renders a short diagnostic summary
func (s Stats) String() string {
	var b strings.Builder
	b.WriteString("entries=")
	b.WriteString(strconv.Itoa(s.Entries))
	b.WriteString(" hits=")
	b.WriteString(strconv.FormatUint(s.Hits, 10))
	b.WriteString(" misses=")
	b.WriteString(strconv.FormatUint(s.Misses, 10))
	b.WriteString(" hit_rate=")
	b.WriteString(strconv.FormatFloat(s.HitRate, 'f', 2, 64))
	return b.String()
}
