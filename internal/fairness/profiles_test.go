package fairness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()
	want := []string{
		ProfileCriminalJustice, ProfileDefault, ProfileEducation,
		ProfileHealthcare, ProfileHiring, ProfileLending,
	}
	assert.Equal(t, want, r.Names())

	for _, name := range want {
		p, err := r.Get(name)
		require.NoError(t, err)
		assert.NoError(t, validateProfile(p), "profile %s", name)
		assert.Equal(t, 0.80, p.LegalRatio)
	}
}

func TestRegistryGetDefaults(t *testing.T) {
	r := NewRegistry()

	p, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, ProfileDefault, p.Name)

	_, err = r.Get("no-such-profile")
	var cerr *ConfigurationError
	assert.ErrorAs(t, err, &cerr)
}

func TestHiringTighterThanDefault(t *testing.T) {
	r := NewRegistry()
	def, err := r.Get(ProfileDefault)
	require.NoError(t, err)
	hiring, err := r.Get(ProfileHiring)
	require.NoError(t, err)

	assert.Less(t, hiring.Checks[0].Band.Severe, def.Checks[0].Band.Severe)
	assert.Less(t, hiring.GroupIdealDP, def.GroupIdealDP)
}

func writeProfileYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadYAMLCustomProfile(t *testing.T) {
	path := writeProfileYAML(t, `
profiles:
  - name: insurance
    checks:
      - name: systematic
        metric: dp_diff
        band: {minor: 0.03, moderate: 0.08, severe: 0.18}
    check_priority: [systematic]
    legal_ratio: 0.85
    group_ideal_dp: 0.08
    group_ideal_eo: 0.12
    group_ideal_fpr: 0.12
    level_excellent: 0.04
    level_good: 0.09
    level_fair: 0.18
`)

	r := NewRegistry()
	require.NoError(t, r.LoadYAML(path))

	p, err := r.Get("insurance")
	require.NoError(t, err)
	assert.Equal(t, 0.85, p.LegalRatio)
	require.Len(t, p.Checks, 1)
	assert.Equal(t, 0.18, p.Checks[0].Band.Severe)
}

func TestLoadYAMLRejectsBadTables(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			"unknown metric",
			`
profiles:
  - name: broken
    checks:
      - {name: systematic, metric: dp_dif, band: {minor: 0.05, moderate: 0.15, severe: 0.25}}
    check_priority: [systematic]
`,
		},
		{
			"non-increasing band",
			`
profiles:
  - name: broken
    checks:
      - {name: systematic, metric: dp_diff, band: {minor: 0.15, moderate: 0.15, severe: 0.25}}
    check_priority: [systematic]
`,
		},
		{
			"missing priority",
			`
profiles:
  - name: broken
    checks:
      - {name: systematic, metric: dp_diff, band: {minor: 0.05, moderate: 0.15, severe: 0.25}}
`,
		},
		{
			"missing name",
			`
profiles:
  - checks:
      - {name: systematic, metric: dp_diff, band: {minor: 0.05, moderate: 0.15, severe: 0.25}}
    check_priority: [systematic]
`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRegistry()
			err := r.LoadYAML(writeProfileYAML(t, tc.content))
			var cerr *ConfigurationError
			assert.ErrorAs(t, err, &cerr)
		})
	}
}

func TestLoadYAMLMissingFile(t *testing.T) {
	r := NewRegistry()
	err := r.LoadYAML(filepath.Join(t.TempDir(), "absent.yaml"))
	var cerr *ConfigurationError
	assert.ErrorAs(t, err, &cerr)
}
