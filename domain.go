package sitemapper

import "regexp"

// domainPattern follows RFC 952/1123: one or more labels of up to 63
// alphanumerics with internal hyphens, then an alphabetic TLD of 2+ chars.
var domainPattern = regexp.MustCompile(`^([a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// IsValidDomain reports whether v is a string holding a well-formed DNS
// domain name. Values of any other type are never valid.
func IsValidDomain(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return domainPattern.MatchString(s)
}

// ValidateDomain returns an EINVALID error if domain is not a well-formed
// DNS domain name.
func ValidateDomain(domain string) error {
	if !IsValidDomain(domain) {
		return Errorf(EINVALID, "Failed to validate %s", domain)
	}
	return nil
}
