package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/oschwald/geoip2-golang"

	"benchboard/internal/support"
)

var (
	readerMu sync.RWMutex
	reader   *geoip2.Reader
)

// Load opens the GeoLite2 country database used to tag submissions
// with the submitter's country. The database is optional: a missing
// file disables enrichment and submissions proceed without it.
func Load() error {
	path := support.GetEnv("GEOIP_COUNTRY_DB", "data/geolite/GeoLite2-Country.mmdb")

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			log.Warn("GeoLite country database not found, submissions will not carry a country", "path", path)
			return nil
		}
		return fmt.Errorf("geoip: stat %s: %w", path, err)
	}

	r, err := geoip2.Open(path)
	if err != nil {
		return fmt.Errorf("geoip: open %s: %w", path, err)
	}

	readerMu.Lock()
	if reader != nil {
		_ = reader.Close()
	}
	reader = r
	readerMu.Unlock()

	log.Info("GeoLite country database loaded", "path", path)
	return nil
}

// CountryForIP resolves an address to a country name, or "" when the
// database is unavailable or the address cannot be resolved.
func CountryForIP(ipAddress string) string {
	readerMu.RLock()
	r := reader
	readerMu.RUnlock()

	if r == nil {
		return ""
	}

	ip := net.ParseIP(ipAddress)
	if ip == nil {
		return ""
	}

	record, err := r.Country(ip)
	if err != nil {
		return ""
	}

	return record.Country.Names["en"]
}

func Close() {
	readerMu.Lock()
	defer readerMu.Unlock()

	if reader != nil {
		_ = reader.Close()
		reader = nil
	}
}
