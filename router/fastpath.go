package router

import (
	"regexp"
	"strings"
	"time"
)

var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^what(?:'s| is) the (?:current )?time(?:\s+(?:right now|now|currently))?(?:\s+in\s+(.+?))?[?.!]?\s*$`),
	regexp.MustCompile(`(?i)^what time is it(?:\s+(?:right now|now|currently))?(?:\s+in\s+(.+?))?[?.!]?\s*$`),
	regexp.MustCompile(`(?i)^what time is it\s+in\s+(.+?)(?:\s+(?:right now|now|currently))?[?.!]?\s*$`),
	regexp.MustCompile(`(?i)^(?:tell me|give me|get me) the (?:current )?time(?:\s+in\s+(.+?))?[?.!]?\s*$`),
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^what(?:'s| is) (?:today(?:'s date)?|the date)[?.!]?\s*$`),
	regexp.MustCompile(`(?i)^what day is it(?: today)?[?.!]?\s*$`),
	regexp.MustCompile(`(?i)^what(?:'s| is) today(?:'s date)?[?.!]?\s*$`),
}

var trailingNowPattern = regexp.MustCompile(`(?i)\s+(?:right now|now|currently)\s*$`)

// TryFastPath answers deterministic time/date queries without the LLM.
// clientTZ is the transport-supplied IANA timezone used when no location
// is named in the query; lookup resolves named cities/regions. Returns
// ("", false) when nothing matched.
func TryFastPath(text, clientTZ string, lookup *TimezoneLookup, now func() time.Time) (string, bool) {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return "", false
	}

	for _, pattern := range timePatterns {
		m := pattern.FindStringSubmatch(clean)
		if m == nil {
			continue
		}

		var location string
		if len(m) > 1 {
			location = cleanLocation(m[1])
		}

		if location != "" {
			loc, ok := lookup.Resolve(location)
			if !ok {
				city := strings.TrimSpace(strings.Split(location, ",")[0])
				loc, ok = lookup.Resolve(city)
			}
			if !ok {
				return "", false // unknown city: fall through to the LLM
			}
			return formatTimeResponse(now().In(loc), location), true
		}

		return formatTimeResponse(resolveClientOrLocal(clientTZ, now), ""), true
	}

	for _, pattern := range datePatterns {
		if pattern.MatchString(clean) {
			return formatDateResponse(resolveClientOrLocal(clientTZ, now)), true
		}
	}

	return "", false
}

func cleanLocation(loc string) string {
	loc = strings.TrimRight(strings.TrimSpace(loc), "?.!")
	loc = trailingNowPattern.ReplaceAllString(loc, "")
	return strings.TrimSpace(loc)
}

func resolveClientOrLocal(clientTZ string, now func() time.Time) time.Time {
	if clientTZ != "" {
		if loc, err := time.LoadLocation(clientTZ); err == nil {
			return now().In(loc)
		}
	}
	return now().Local()
}

func formatTimeResponse(t time.Time, location string) string {
	timeStr := t.Format("3:04 PM")
	tzStr := t.Format("MST")
	dayStr := t.Format("Monday, January 2, 2006")
	if location != "" {
		return "It's " + timeStr + " " + tzStr + " in " + location + " — " + dayStr + "."
	}
	return "It's " + timeStr + " " + tzStr + " — " + dayStr + "."
}

func formatDateResponse(t time.Time) string {
	return "Today is " + t.Format("Monday, January 2, 2006") + "."
}
