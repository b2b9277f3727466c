package redis

import "fmt"

const (
	// KeyPrefixLink is the prefix for link keys
	KeyPrefixLink = "linkdeck:link:"
	// KeyPrefixCache is the prefix for search cache keys
	KeyPrefixCache = "linkdeck:cache:"
	// KeyAllLinks is the key for the set of all link IDs
	KeyAllLinks = "linkdeck:links:all"
	// KeyClicks is the hash of link ID -> click count
	KeyClicks = "linkdeck:clicks"
	// KeyLastUsed is the hash of link ID -> unix time of the last click
	KeyLastUsed = "linkdeck:last_used"
)

// LinkKey returns the Redis key for a link by ID
func LinkKey(id string) string {
	return KeyPrefixLink + id
}

// CacheKey returns the Redis key for a cached search resolution
func CacheKey(query string) string {
	return KeyPrefixCache + query
}

// AllLinksKey returns the key for the set of all link IDs
func AllLinksKey() string {
	return KeyAllLinks
}

// ExtractLinkID extracts the link ID from a Redis key
func ExtractLinkID(key string) (string, error) {
	if len(key) <= len(KeyPrefixLink) || key[:len(KeyPrefixLink)] != KeyPrefixLink {
		return "", fmt.Errorf("invalid link key: %s", key)
	}
	return key[len(KeyPrefixLink):], nil
}
