package fairness

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Band holds the lower bounds of the minor, moderate and severe severity
// bands for one check. Values below Minor classify as none; bands are
// half-open [low, high) with the severe band open-ended.
type Band struct {
	Minor    float64 `yaml:"minor" json:"minor"`
	Moderate float64 `yaml:"moderate" json:"moderate"`
	Severe   float64 `yaml:"severe" json:"severe"`
}

// CheckSpec binds a named bias check to the metric it reads and its
// severity band.
type CheckSpec struct {
	Name   string `yaml:"name" json:"name"`
	Metric string `yaml:"metric" json:"metric"`
	Band   Band   `yaml:"band" json:"band"`
}

// Profile is one use-case threshold table. Every cut point the classifier
// and assessor consult lives here, so serving a new domain never touches
// calculation logic.
type Profile struct {
	Name          string      `yaml:"name" json:"name"`
	Checks        []CheckSpec `yaml:"checks" json:"checks"`
	CheckPriority []string    `yaml:"check_priority" json:"check_priority"`

	// LegalRatio is the minimum dp_ratio for the 80% rule assessment.
	LegalRatio float64 `yaml:"legal_ratio" json:"legal_ratio"`

	// Ideal cut points for the group-fairness composite.
	GroupIdealDP  float64 `yaml:"group_ideal_dp" json:"group_ideal_dp"`
	GroupIdealEO  float64 `yaml:"group_ideal_eo" json:"group_ideal_eo"`
	GroupIdealFPR float64 `yaml:"group_ideal_fpr" json:"group_ideal_fpr"`

	// Level cuts for individual and calibration fairness
	// (excellent < Excellent, good < Good, fair < Fair, else poor).
	LevelExcellent float64 `yaml:"level_excellent" json:"level_excellent"`
	LevelGood      float64 `yaml:"level_good" json:"level_good"`
	LevelFair      float64 `yaml:"level_fair" json:"level_fair"`
}

// Check names, in default priority order.
const (
	CheckSystematic  = "systematic"
	CheckOpportunity = "opportunity"
	CheckError       = "error"
	CheckQuality     = "quality"
	CheckInequality  = "inequality"
)

// Built-in profile names.
const (
	ProfileDefault         = "default"
	ProfileHiring          = "hiring"
	ProfileLending         = "lending"
	ProfileCriminalJustice = "criminal_justice"
	ProfileHealthcare      = "healthcare"
	ProfileEducation       = "education"
)

func defaultChecks() []CheckSpec {
	return []CheckSpec{
		{Name: CheckSystematic, Metric: MetricDPDiff, Band: Band{Minor: 0.05, Moderate: 0.15, Severe: 0.25}},
		{Name: CheckOpportunity, Metric: MetricEODiff, Band: Band{Minor: 0.10, Moderate: 0.15, Severe: 0.30}},
		{Name: CheckError, Metric: MetricFPRDiff, Band: Band{Minor: 0.10, Moderate: 0.15, Severe: 0.30}},
		{Name: CheckQuality, Metric: MetricPPDiff, Band: Band{Minor: 0.10, Moderate: 0.15, Severe: 0.30}},
		{Name: CheckInequality, Metric: MetricTheilIndex, Band: Band{Minor: 0.10, Moderate: 0.15, Severe: 0.25}},
	}
}

func defaultPriority() []string {
	return []string{CheckSystematic, CheckOpportunity, CheckError, CheckQuality, CheckInequality}
}

func baseProfile(name string) Profile {
	return Profile{
		Name:           name,
		Checks:         defaultChecks(),
		CheckPriority:  defaultPriority(),
		LegalRatio:     0.80,
		GroupIdealDP:   0.10,
		GroupIdealEO:   0.15,
		GroupIdealFPR:  0.15,
		LevelExcellent: 0.05,
		LevelGood:      0.10,
		LevelFair:      0.20,
	}
}

// Registry resolves threshold profiles by name.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry builds a registry with the built-in use-case profiles.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]Profile)}

	r.register(baseProfile(ProfileDefault))

	// Hiring follows the employment 80% rule closely: selection-rate
	// disparities escalate faster.
	hiring := baseProfile(ProfileHiring)
	hiring.Checks[0].Band = Band{Minor: 0.04, Moderate: 0.10, Severe: 0.20}
	hiring.GroupIdealDP = 0.08
	r.register(hiring)

	// Lending weighs precision parity: an unreliable approval means real
	// financial harm.
	lending := baseProfile(ProfileLending)
	lending.Checks[3].Band = Band{Minor: 0.08, Moderate: 0.12, Severe: 0.25}
	lending.CheckPriority = []string{CheckSystematic, CheckQuality, CheckOpportunity, CheckError, CheckInequality}
	r.register(lending)

	// Criminal justice treats false-positive disparity as the primary harm.
	cj := baseProfile(ProfileCriminalJustice)
	cj.Checks[2].Band = Band{Minor: 0.05, Moderate: 0.10, Severe: 0.20}
	cj.CheckPriority = []string{CheckError, CheckOpportunity, CheckSystematic, CheckQuality, CheckInequality}
	cj.GroupIdealFPR = 0.10
	r.register(cj)

	// Healthcare tightens equal opportunity: a missed true positive is a
	// missed diagnosis.
	hc := baseProfile(ProfileHealthcare)
	hc.Checks[1].Band = Band{Minor: 0.05, Moderate: 0.10, Severe: 0.20}
	hc.CheckPriority = []string{CheckOpportunity, CheckError, CheckSystematic, CheckQuality, CheckInequality}
	hc.GroupIdealEO = 0.10
	r.register(hc)

	// Education tolerates moderate selection spread but watches inequality
	// of outcomes across the population.
	edu := baseProfile(ProfileEducation)
	edu.Checks[4].Band = Band{Minor: 0.08, Moderate: 0.12, Severe: 0.20}
	r.register(edu)

	return r
}

func (r *Registry) register(p Profile) {
	r.profiles[p.Name] = p
}

// Get resolves a profile by name; unknown names are a ConfigurationError.
func (r *Registry) Get(name string) (Profile, error) {
	if name == "" {
		name = ProfileDefault
	}
	p, ok := r.profiles[name]
	if !ok {
		return Profile{}, NewConfigurationError("thresholds_profile", fmt.Sprintf("unknown profile %q", name))
	}
	return p, nil
}

// Names lists the registered profile names sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for n := range r.profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns every registered profile keyed by name.
func (r *Registry) All() map[string]Profile {
	out := make(map[string]Profile, len(r.profiles))
	for n, p := range r.profiles {
		out[n] = p
	}
	return out
}

// LoadYAML registers custom profiles from a YAML file, overriding built-ins
// with the same name. Malformed tables are a ConfigurationError.
func (r *Registry) LoadYAML(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return NewConfigurationError("profiles_path", err.Error())
	}

	var doc struct {
		Profiles []Profile `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return NewConfigurationError("profiles_path", fmt.Sprintf("parse %s: %v", path, err))
	}

	for _, p := range doc.Profiles {
		if err := validateProfile(p); err != nil {
			return err
		}
		r.register(p)
	}
	return nil
}

func validateProfile(p Profile) error {
	if p.Name == "" {
		return NewConfigurationError("profiles", "profile without a name")
	}
	if len(p.Checks) == 0 {
		return NewConfigurationError("profiles", fmt.Sprintf("profile %q defines no checks", p.Name))
	}
	for _, cs := range p.Checks {
		if _, ok := (&MetricSet{}).ByName(cs.Metric); !ok {
			return NewConfigurationError("profiles",
				fmt.Sprintf("profile %q check %q reads unknown metric %q", p.Name, cs.Name, cs.Metric))
		}
		b := cs.Band
		if !(b.Minor < b.Moderate && b.Moderate < b.Severe) {
			return NewConfigurationError("profiles",
				fmt.Sprintf("profile %q check %q band is not increasing", p.Name, cs.Name))
		}
	}
	if len(p.CheckPriority) == 0 {
		return NewConfigurationError("profiles", fmt.Sprintf("profile %q has no check priority order", p.Name))
	}
	return nil
}
