package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/setevik/crashlens/internal/event"
)

// SignalOverride is one user-supplied signal table entry. Overrides replace
// the builtin entry for the same number, or add a new one.
type SignalOverride struct {
	Number          int      `yaml:"number"`
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Severity        string   `yaml:"severity"`
	CommonCauses    []string `yaml:"common_causes"`
	Recommendations []string `yaml:"recommendations"`
}

type overridesFile struct {
	Signals []SignalOverride `yaml:"signals"`
}

// LoadOverrides reads a YAML overrides file and applies it to the table.
// A missing path is not an error so the config can point at an optional
// file; malformed YAML or invalid entries are.
func (t *Table) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading signal overrides: %w", err)
	}

	var f overridesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing signal overrides %s: %w", path, err)
	}

	for _, o := range f.Signals {
		if err := t.apply(o); err != nil {
			return fmt.Errorf("signal override %d: %w", o.Number, err)
		}
	}
	return nil
}

func (t *Table) apply(o SignalOverride) error {
	if o.Number <= 0 {
		return fmt.Errorf("invalid signal number %d", o.Number)
	}
	if o.Name == "" {
		return fmt.Errorf("missing name")
	}

	sev, err := parseSeverity(o.Severity)
	if err != nil {
		return err
	}

	causes := o.CommonCauses
	if len(causes) == 0 {
		causes = []string{"Unknown"}
	}

	t.signals[o.Number] = event.SignalInfo{
		Number:       o.Number,
		Name:         o.Name,
		Description:  o.Description,
		CommonCauses: causes,
		Severity:     sev,
	}
	if len(o.Recommendations) > 0 {
		t.recommendations[o.Number] = o.Recommendations
	}
	return nil
}

func parseSeverity(s string) (event.Severity, error) {
	switch event.Severity(s) {
	case event.SevCritical, event.SevHigh, event.SevMedium, event.SevLow, event.SevUnknown:
		return event.Severity(s), nil
	case "":
		return event.SevUnknown, nil
	default:
		return "", fmt.Errorf("invalid severity %q", s)
	}
}
