package authenticity

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseURLList parses a text file of URLs, one per line. Blank lines and
// lines starting with "#" are skipped; malformed lines are reported with
// their line numbers instead of aborting the whole file.
func ParseURLList(content string) (urls []string, errs []string) {
	for lineNum, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !strings.HasPrefix(line, "http://") && !strings.HasPrefix(line, "https://") {
			errs = append(errs, fmt.Sprintf("line %d: invalid URL (must start with http:// or https://): %s", lineNum+1, head(line, 50)))
			continue
		}

		u, err := url.Parse(line)
		if err != nil || u.Host == "" {
			errs = append(errs, fmt.Sprintf("line %d: malformed URL: %s", lineNum+1, head(line, 50)))
			continue
		}

		urls = append(urls, line)
	}
	return urls, errs
}
