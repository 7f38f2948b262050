package whitelist

import (
	"strings"

	"go.uber.org/zap"
)

// Checker restricts subscriber addresses to a list of mail domains
type Checker struct {
	domains []string
	logger  *zap.Logger
}

// NewChecker creates a new domain checker. Entries may be written as
// "example.com" or "@example.com"; a leading "*." also admits subdomains.
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	normalizedDomains := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		domain = strings.TrimPrefix(domain, "@")
		if domain != "" {
			normalizedDomains = append(normalizedDomains, domain)
		}
	}

	if len(normalizedDomains) > 0 && logger != nil {
		logger.Info("Restricting subscribers to domains", zap.Strings("domains", normalizedDomains))
	}

	return &Checker{
		domains: normalizedDomains,
		logger:  logger,
	}
}

// IsAllowed reports whether email may subscribe. An empty list allows
// every domain.
func (c *Checker) IsAllowed(email string) bool {
	if len(c.domains) == 0 {
		return true
	}

	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(email[at+1:])

	for _, allowed := range c.domains {
		if matchDomain(allowed, domain) {
			return true
		}
	}

	if c.logger != nil {
		c.logger.Debug("Domain not allowed",
			zap.String("domain", domain),
			zap.String("email", email))
	}
	return false
}

func matchDomain(pattern, domain string) bool {
	if suffix, ok := strings.CutPrefix(pattern, "*."); ok {
		return domain == suffix || strings.HasSuffix(domain, "."+suffix)
	}
	return pattern == domain
}
