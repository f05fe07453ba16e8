package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobListKeyCanonicalizesFilterOrder(t *testing.T) {
	a := JobListKey(map[string]string{"location": "Berlin", "keyword": "go"})
	b := JobListKey(map[string]string{"keyword": "go", "location": "Berlin"})
	assert.Equal(t, a, b)
	assert.Equal(t, "hirelane:jobs:list:keyword=go&location=Berlin", a)
}

func TestJobListKeyEmptyFilters(t *testing.T) {
	assert.Equal(t, "hirelane:jobs:list:all", JobListKey(nil))
	assert.Equal(t, "hirelane:jobs:list:all", JobListKey(map[string]string{}))
	// Blank values do not parameterize the key.
	assert.Equal(t, "hirelane:jobs:list:all", JobListKey(map[string]string{"location": "", "keyword": ""}))
}

func TestJobListPatternMatchesListKeys(t *testing.T) {
	assert.Equal(t, "hirelane:jobs:list:*", JobListPattern())
}

func TestResourceKeys(t *testing.T) {
	assert.Equal(t, "hirelane:job:42", JobKey("42"))
	assert.Equal(t, "hirelane:company:42", CompanyKey("42"))
	assert.Equal(t, "hirelane:applications:user:42", UserApplicationsKey("42"))
}
