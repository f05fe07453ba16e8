package cache

import (
	"sort"
	"strings"
)

// Key derivation is pure and deterministic: the same resource and the same
// filter set always map to the same key, independent of map iteration order.
// All keys carry the "hirelane:" prefix to avoid collisions on a shared
// Redis instance.

const keyPrefix = "hirelane:"

func JobKey(id string) string {
	return keyPrefix + "job:" + id
}

func CompanyKey(id string) string {
	return keyPrefix + "company:" + id
}

func UserApplicationsKey(userID string) string {
	return keyPrefix + "applications:user:" + userID
}

// JobListKey canonicalizes the filter set by sorting its keys so that
// equivalent filter maps derive identical cache keys.
func JobListKey(filters map[string]string) string {
	if len(filters) == 0 {
		return keyPrefix + "jobs:list:all"
	}
	names := make([]string, 0, len(filters))
	for name, value := range filters {
		if value == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return keyPrefix + "jobs:list:all"
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+filters[name])
	}
	return keyPrefix + "jobs:list:" + strings.Join(parts, "&")
}

// JobListPattern matches every parameterized job list key.
func JobListPattern() string {
	return keyPrefix + "jobs:list:*"
}
