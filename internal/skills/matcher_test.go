package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	tests := []struct {
		text    string
		keyword string
		want    bool
	}{
		{"Built services in Go, Python", "go", true},
		{"Joined Google in 2019", "go", false},
		{"Ran  distributed\n systems", "distributed systems", true},
		{"Wrote node.js tooling", "Node.js", true},
		{"Shipped C++ libraries", "c++", true},
		{"Ported code to Go", "go", true},
		{"", "go", false},
		{"go", " ", false},
		{"Kubernetes operators", "kube", false},
	}
	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(tt.text, tt.keyword))
		})
	}
}

func TestMatcher_Canonical(t *testing.T) {
	m := NewMatcher(map[string][]string{"PostgreSQL": {"postgres", "psql"}})

	assert.Equal(t, "Go", m.Canonical("golang"))
	assert.Equal(t, "Kubernetes", m.Canonical("K8S"))
	assert.Equal(t, "PostgreSQL", m.Canonical("postgres"))
	assert.Equal(t, "Rust", m.Canonical(" Rust "))
}

func TestMatcher_Expand(t *testing.T) {
	m := NewMatcher(map[string][]string{"PostgreSQL": {"postgres"}})

	got := m.Expand([]string{"k8s", "Kubernetes", "postgres", "", "SQL"})
	assert.Equal(t, []string{"Kubernetes", "k8s", "PostgreSQL", "postgres", "SQL"}, got)
}

func TestMatcher_SynonymsExtendBuiltins(t *testing.T) {
	m := NewMatcher(map[string][]string{"golang": {"gopher"}})

	assert.Equal(t, "Go", m.Canonical("gopher"))
	assert.Equal(t, []string{"Go", "golang", "go lang", "gopher"}, m.Expand([]string{"go"}))
}

func TestMatcher_Matches(t *testing.T) {
	m := NewMatcher(nil)

	assert.True(t, m.Matches("Ran k8s clusters", "Kubernetes"))
	assert.True(t, m.Matches("Wrote Golang services", "Go"))
	assert.False(t, m.Matches("Wrote Python services", "Go"))
}

func TestMatchesAny(t *testing.T) {
	expanded := NewMatcher(nil).Expand([]string{"typescript"})

	assert.True(t, MatchesAny("Migrated the UI to TS", expanded))
	assert.False(t, MatchesAny("Migrated the UI to Elm", expanded))
	assert.False(t, MatchesAny("anything", nil))
}
