package nickname

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_Format(t *testing.T) {
	re := regexp.MustCompile(`^\S+ \S+ \d{1,3}호$`)

	for range 100 {
		got := Generate()
		assert.Regexp(t, re, got)
	}
}

func TestGenerate_NotConstant(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		seen[Generate()] = struct{}{}
	}
	// 50 розыгрышей из 200 комбинаций почти наверняка дают больше одного варианта
	assert.Greater(t, len(seen), 1)
}
