package whitelist

import (
	"net/mail"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/idna"
)

// Checker decides whether a sender belongs to a trusted domain.
// An entry matches its own domain and every subdomain of it.
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new trusted sender checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	c := &Checker{
		domains: make(map[string]struct{}, len(domains)),
		logger:  logger,
	}
	for _, domain := range domains {
		if normalized := normalizeDomain(domain); normalized != "" {
			c.domains[normalized] = struct{}{}
		}
	}

	if len(c.domains) > 0 && logger != nil {
		logger.Info("Initialized trusted sender checker", zap.Int("domains", len(c.domains)))
	}

	return c
}

// Len returns the number of trusted domains
func (c *Checker) Len() int {
	return len(c.domains)
}

// IsTrusted reports whether from (a bare address or "Name <addr>") is in a trusted domain
func (c *Checker) IsTrusted(from string) bool {
	if len(c.domains) == 0 {
		return false
	}

	domain := senderDomain(from)
	if domain == "" {
		return false
	}

	for candidate := domain; candidate != ""; {
		if _, ok := c.domains[candidate]; ok {
			if c.logger != nil {
				c.logger.Debug("Sender domain is trusted",
					zap.String("domain", domain),
					zap.String("matched", candidate))
			}
			return true
		}
		_, rest, found := strings.Cut(candidate, ".")
		if !found {
			break
		}
		candidate = rest
	}

	return false
}

// senderDomain extracts the normalized domain of an address
func senderDomain(from string) string {
	address := strings.TrimSpace(from)
	if parsed, err := mail.ParseAddress(address); err == nil {
		address = parsed.Address
	}

	at := strings.LastIndex(address, "@")
	if at < 0 || at == len(address)-1 {
		return ""
	}
	return normalizeDomain(address[at+1:])
}

// normalizeDomain lowercases a domain and converts IDNs to ASCII
func normalizeDomain(domain string) string {
	domain = strings.Trim(strings.ToLower(strings.TrimSpace(domain)), ".")
	if domain == "" {
		return ""
	}
	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return domain
	}
	return ascii
}
