package router

import (
	"strings"
	"time"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// ianaZones is a fixed embedded list of IANA zone names, standing in for
// Go's lack of a runtime zone-enumeration API. It covers the zones a
// voice assistant's time queries realistically hit: the populated,
// commonly-referenced zone per region rather than the full ~600-entry
// tz database.
var ianaZones = []string{
	"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles",
	"America/Anchorage", "America/Phoenix", "America/Sao_Paulo", "America/Mexico_City",
	"America/Toronto", "America/Vancouver", "America/Bogota", "America/Lima",
	"America/Argentina/Buenos_Aires", "America/Santiago",
	"Europe/London", "Europe/Paris", "Europe/Berlin", "Europe/Madrid", "Europe/Rome",
	"Europe/Amsterdam", "Europe/Moscow", "Europe/Istanbul", "Europe/Athens",
	"Europe/Dublin", "Europe/Lisbon", "Europe/Stockholm", "Europe/Zurich",
	"Europe/Vienna", "Europe/Warsaw", "Europe/Prague", "Europe/Brussels",
	"Asia/Tokyo", "Asia/Shanghai", "Asia/Hong_Kong", "Asia/Singapore", "Asia/Seoul",
	"Asia/Kolkata", "Asia/Dubai", "Asia/Bangkok", "Asia/Jakarta", "Asia/Manila",
	"Asia/Taipei", "Asia/Karachi", "Asia/Dhaka", "Asia/Tel_Aviv", "Asia/Riyadh",
	"Australia/Sydney", "Australia/Melbourne", "Australia/Brisbane", "Australia/Perth",
	"Pacific/Auckland", "Pacific/Honolulu", "Pacific/Fiji",
	"Africa/Cairo", "Africa/Johannesburg", "Africa/Lagos", "Africa/Nairobi",
}

// manualAliases covers states, countries, and common abbreviations that
// don't appear as an IANA leaf segment.
var manualAliases = map[string]string{
	"texas": "America/Chicago", "california": "America/Los_Angeles",
	"new york": "America/New_York", "florida": "America/New_York",
	"illinois": "America/Chicago", "washington": "America/Los_Angeles",
	"arizona": "America/Phoenix", "alaska": "America/Anchorage",
	"hawaii": "Pacific/Honolulu",
	"uk": "Europe/London", "britain": "Europe/London", "england": "Europe/London",
	"usa": "America/New_York", "america": "America/New_York",
	"japan": "Asia/Tokyo", "china": "Asia/Shanghai", "india": "Asia/Kolkata",
	"germany": "Europe/Berlin", "france": "Europe/Paris", "spain": "Europe/Madrid",
	"italy": "Europe/Rome", "russia": "Europe/Moscow", "brazil": "America/Sao_Paulo",
	"mexico": "America/Mexico_City", "canada": "America/Toronto",
	"australia": "Australia/Sydney", "south korea": "Asia/Seoul",
	"korea": "Asia/Seoul", "singapore": "Asia/Singapore", "thailand": "Asia/Bangkok",
	"indonesia": "Asia/Jakarta", "philippines": "Asia/Manila", "taiwan": "Asia/Taipei",
	"pakistan": "Asia/Karachi", "bangladesh": "Asia/Dhaka", "israel": "Asia/Tel_Aviv",
	"saudi arabia": "Asia/Riyadh", "uae": "Asia/Dubai", "dubai": "Asia/Dubai",
	"egypt": "Africa/Cairo", "south africa": "Africa/Johannesburg",
	"nigeria": "Africa/Lagos", "kenya": "Africa/Nairobi", "new zealand": "Pacific/Auckland",
	"fiji": "Pacific/Fiji", "ireland": "Europe/Dublin", "portugal": "Europe/Lisbon",
	"sweden": "Europe/Stockholm", "switzerland": "Europe/Zurich", "austria": "Europe/Vienna",
	"poland": "Europe/Warsaw", "czech republic": "Europe/Prague", "belgium": "Europe/Brussels",
	"greece": "Europe/Athens", "turkey": "Europe/Istanbul", "argentina": "America/Argentina/Buenos_Aires",
	"chile": "America/Santiago", "colombia": "America/Bogota", "peru": "America/Lima",
}

// TimezoneLookup resolves a free-text location name to an IANA zone,
// built once from the embedded zone list plus manual aliases.
type TimezoneLookup struct {
	byLeaf map[string]string // lowercased leaf/alias -> IANA zone name
}

var similarityMetric = metrics.NewJaroWinkler()

// NewTimezoneLookup builds the lookup table. Ambiguous leaf collisions
// keep the first-registered zone, per the embedded list's stable order.
func NewTimezoneLookup() *TimezoneLookup {
	t := &TimezoneLookup{byLeaf: make(map[string]string)}
	for _, zone := range ianaZones {
		leaf := leafSegment(zone)
		key := strings.ToLower(strings.ReplaceAll(leaf, "_", " "))
		if _, exists := t.byLeaf[key]; !exists {
			t.byLeaf[key] = zone
		}
	}
	for alias, zone := range manualAliases {
		if _, exists := t.byLeaf[alias]; !exists {
			t.byLeaf[alias] = zone
		}
	}
	return t
}

func leafSegment(zone string) string {
	parts := strings.Split(zone, "/")
	return parts[len(parts)-1]
}

// Resolve looks up a location name, falling back to fuzzy matching
// against the known leaf/alias keys when there's no exact hit.
func (t *TimezoneLookup) Resolve(location string) (*time.Location, bool) {
	key := strings.ToLower(strings.TrimSpace(location))
	if key == "" {
		return nil, false
	}

	if zone, ok := t.byLeaf[key]; ok {
		loc, err := time.LoadLocation(zone)
		return loc, err == nil
	}

	best, bestScore := "", 0.0
	for candidate, zone := range t.byLeaf {
		score := strutil.Similarity(key, candidate, similarityMetric)
		if score > bestScore {
			bestScore, best = score, zone
		}
	}
	if bestScore >= 0.92 {
		loc, err := time.LoadLocation(best)
		return loc, err == nil
	}
	return nil, false
}
