package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable is returned when the resolver is not initialized.
var ErrUnavailable = errors.New("geoip resolver unavailable")

// cacheSize bounds the per-process lookup cache. It is reset when full.
const cacheSize = 4096

// CountryResolver resolves ISO country codes from IP addresses. Request
// logs are tagged with the result.
type CountryResolver interface {
	CountryCode(ip string) (string, error)
}

// Resolver provides cached country lookups backed by a MaxMind GeoIP2 database.
type Resolver struct {
	lookup func(net.IP) (string, error)
	close  func() error

	mu    sync.Mutex
	cache map[string]string
}

// NewResolver opens the GeoIP database at the given path. An empty path
// disables lookups and returns a nil resolver.
func NewResolver(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	r := newResolver(func(ip net.IP) (string, error) {
		record, err := reader.Country(ip)
		if err != nil {
			return "", err
		}
		if record == nil {
			return "", nil
		}
		return record.Country.IsoCode, nil
	})
	r.close = reader.Close
	return r, nil
}

func newResolver(lookup func(net.IP) (string, error)) *Resolver {
	return &Resolver{lookup: lookup, cache: make(map[string]string)}
}

// CountryCode returns the upper-case ISO country code for ip. Private and
// loopback addresses resolve to "".
func (r *Resolver) CountryCode(ip string) (string, error) {
	if r == nil || r.lookup == nil {
		return "", ErrUnavailable
	}
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return "", fmt.Errorf("geoip: invalid ip %q", ip)
	}
	if parsed.IsLoopback() || parsed.IsPrivate() {
		return "", nil
	}

	key := parsed.String()
	r.mu.Lock()
	code, hit := r.cache[key]
	r.mu.Unlock()
	if hit {
		return code, nil
	}

	code, err := r.lookup(parsed)
	if err != nil {
		return "", fmt.Errorf("geoip: lookup country: %w", err)
	}
	code = strings.ToUpper(code)

	r.mu.Lock()
	if len(r.cache) >= cacheSize {
		r.cache = make(map[string]string)
	}
	r.cache[key] = code
	r.mu.Unlock()
	return code, nil
}

var _ CountryResolver = (*Resolver)(nil)

// Close closes the underlying database reader.
func (r *Resolver) Close() error {
	if r == nil || r.close == nil {
		return nil
	}
	return r.close()
}
