package sitemapper

import "regexp"

// robotsSitemapPattern matches a `Sitemap: <url>` line. The prefix is case
// sensitive with exactly one space. A trailing CR is tolerated.
var robotsSitemapPattern = regexp.MustCompile(`(?m)^Sitemap: (\S+)\r?$`)

// ExtractSitemapURL returns the URL of the first Sitemap directive in a
// robots.txt document, or an empty string if there is none.
func ExtractSitemapURL(robots string) string {
	m := robotsSitemapPattern.FindStringSubmatch(robots)
	if m == nil {
		return ""
	}
	return m[1]
}
