package sitemapper

// DefaultCandidatePaths returns the well-known sitemap locations in probe
// priority order. The most common conventions come first, so when a site
// serves several of them the earliest one wins.
//
// A fresh slice is returned on every call.
func DefaultCandidatePaths() []string {
	return []string{
		"/sitemap.xml",
		"/sitemap.txt",
		"/sitemap_index.xml",
		"/sitemap/",
		"/sitemap-index.xml",
		"/sitemaps/",
		"/sitemap-indexes/",
		"/post-sitemap.xml",
		"/page-sitemap.xml",
		"/category-sitemap.xml",
		"/tag-sitemap.xml",
		"/pages-sitemap.xml",
		"/blog-pages-sitemap.xml",
		"/member-profile-sitemap.xml",
		"/dynamic-pages-sitemap.xml",
		"/other-pages-sitemap.xml",
		"/sitemap.xml.gz",
		"/sitemap1.xml",
		"/sitemapindex.xml",
		"/sitemap_index.xml.gz",
		"/sitemap/index.xml",
	}
}

// CandidateURLs builds the HTTPS candidate URLs for domain, one per path,
// preserving the order of paths.
func CandidateURLs(domain string, paths []string) []string {
	urls := make([]string, len(paths))
	for i, p := range paths {
		urls[i] = SiteURL(domain, p)
	}
	return urls
}

// RobotsURL returns the robots.txt location for domain.
func RobotsURL(domain string) string {
	return SiteURL(domain, "/robots.txt")
}

// SiteURL joins an HTTPS origin for domain with an absolute path.
func SiteURL(domain, path string) string {
	return "https://" + domain + path
}
