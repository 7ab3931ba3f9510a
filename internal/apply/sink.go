package apply

import (
	"fmt"
	"io"

	"github.com/1homsi/tsparam/internal/plan"
	"gopkg.in/yaml.v3"
)

// Migration is one persisted record telling a downstream consumer which
// parameter addition to apply against their own source.
type Migration struct {
	Requirement *plan.AddParameter
	Why         string
}

// MigrationSink receives migration records as the executor implements
// add-migration requirements.
type MigrationSink interface {
	Record(m Migration) error
}

// MemorySink accumulates migrations in memory; it is the default sink and
// its records are exposed on the final report.
type MemorySink struct {
	Records []Migration
}

func (s *MemorySink) Record(m Migration) error {
	s.Records = append(s.Records, m)
	return nil
}

// migrationDoc mirrors the YAML layout migrations are persisted in.
type migrationDoc struct {
	Function  string `yaml:"function"`
	File      string `yaml:"file"`
	Access    string `yaml:"access"`
	Parameter struct {
		Name   string `yaml:"name"`
		Type   string `yaml:"type"`
		Module string `yaml:"module"`
	} `yaml:"parameter"`
	DummyValue string `yaml:"dummy_value,omitempty"`
	Why        string `yaml:"why,omitempty"`
}

// WriteYAML renders migration records as a YAML document stream.
func WriteYAML(w io.Writer, migrations []Migration) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	for _, m := range migrations {
		var doc migrationDoc
		doc.Function = m.Requirement.Target.DottedName()
		doc.File = m.Requirement.Target.FilePath
		doc.Access = m.Requirement.Target.Access.String()
		doc.Parameter.Name = m.Requirement.ParameterName
		doc.Parameter.Type = m.Requirement.ParameterType.Name
		doc.Parameter.Module = m.Requirement.ParameterType.ModuleLocation()
		doc.DummyValue = m.Requirement.PopulateInTests.DummyValue
		doc.Why = m.Why
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode migration for %s: %w", doc.Function, err)
		}
	}
	return nil
}
