package loader

import (
	"fmt"
	"math/rand"
)

// SettingRandom selects the random per-task prefix policy. Any other non-empty
// idPrefix setting is used as a literal prefix. Prefixing exists for load
// testing: it lets repeated runs over the same inputs produce distinct
// document keys instead of overwriting each other.
const SettingRandom = "random"

// IdentityPolicy maps an input-derived key to the document's final identity.
// Policies are pure: the same key always yields the same identity for the
// lifetime of the policy value.
type IdentityPolicy interface {
	Assign(key string) string
}

// Passthrough keeps the input-derived key as the identity.
type Passthrough struct{}

func (Passthrough) Assign(key string) string { return key }

// Prefix prepends a fixed literal to every key.
type Prefix struct {
	prefix string
}

func NewPrefix(prefix string) Prefix {
	return Prefix{prefix: prefix}
}

func (p Prefix) Assign(key string) string { return p.prefix + key }

// RandomPrefix prepends a prefix drawn once at construction, so every document
// of one task shares it while distinct tasks (distinct seeds) get distinct
// prefixes.
type RandomPrefix struct {
	prefix string
}

func NewRandomPrefix(seed int64) RandomPrefix {
	n := rand.New(rand.NewSource(seed)).Int31()
	return RandomPrefix{prefix: fmt.Sprintf("%d#", n)}
}

func (p RandomPrefix) Assign(key string) string { return p.prefix + key }

// PolicyFromSetting resolves the idPrefix setting into a policy: empty means
// passthrough, "random" means a seeded random prefix, anything else is a
// literal prefix.
func PolicyFromSetting(setting string, seed int64) IdentityPolicy {
	switch setting {
	case "":
		return Passthrough{}
	case SettingRandom:
		return NewRandomPrefix(seed)
	default:
		return NewPrefix(setting)
	}
}
