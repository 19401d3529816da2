package ingest

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Video IDs are opaque strings drawn from the URL-safe base64 alphabet.
// No minimum length is imposed beyond non-emptiness for URL-borne IDs;
// bare lines must look entirely like an ID to be accepted as one.
var videoIDMatcher = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ExtractVideoID parses a single line of operator input - a watch URL, a
// youtu.be short link, or a bare video ID - and returns the video ID it
// carries. Lines which cannot be parsed yield an explicit error rather
// than a silently truncated ID.
func ExtractVideoID(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("cannot extract video ID from empty line")
	}

	if videoIDMatcher.MatchString(line) {
		return line, nil
	}

	parsed, err := url.Parse(line)
	if err != nil {
		return "", fmt.Errorf("cannot extract video ID from unparseable line '%s': %w", line, err)
	}

	if id := parsed.Query().Get("v"); id != "" {
		if !videoIDMatcher.MatchString(id) {
			return "", fmt.Errorf("line '%s' contains malformed video ID '%s'", line, id)
		}

		return id, nil
	}

	// Short links carry the ID as the sole path component.
	if strings.EqualFold(parsed.Hostname(), "youtu.be") {
		id := strings.Trim(parsed.Path, "/")
		if videoIDMatcher.MatchString(id) {
			return id, nil
		}
	}

	return "", fmt.Errorf("line '%s' contains no extractable video ID", line)
}
