package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lintindex/rules-index/internal/domain"
)

// Catalog file formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// Parser decodes catalog files. It accepts the current {rules, pluginCount}
// object and the legacy bare array of records.
type Parser struct {
	validator domain.Validator
}

// NewParser creates a Parser. Records failing validator are dropped and
// reported; a nil validator accepts every record.
func NewParser(validator domain.Validator) *Parser {
	return &Parser{validator: validator}
}

// FormatFor returns the catalog format implied by a file path
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFile reads and decodes the catalog at path. The returned error is fatal;
// the LoadError slice lists records that were dropped.
func (p *Parser) ParseFile(path string) (domain.Catalog, []domain.LoadError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	catalog, loadErr := p.parseContent(data, FormatFor(path), path)
	if loadErr != nil {
		return domain.Catalog{}, nil, domain.NewAppError(
			domain.ErrCatalogInvalid,
			loadErr.Error,
			500,
			loadErr,
		)
	}

	kept, dropped := p.validate(catalog.Rules, path)
	catalog.Rules = kept
	return catalog, dropped, nil
}

func (p *Parser) parseContent(data []byte, format, path string) (domain.Catalog, *domain.LoadError) {
	if format == FormatJSON {
		return parseJSON(data, path)
	}
	return parseYAML(data, path)
}

func parseJSON(data []byte, path string) (domain.Catalog, *domain.LoadError) {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")

	var catalog domain.Catalog
	var err error
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &catalog.Rules)
	} else {
		err = json.Unmarshal(trimmed, &catalog)
	}
	if err != nil {
		return domain.Catalog{}, &domain.LoadError{
			FilePath: path,
			Error:    fmt.Sprintf("failed to parse JSON: %v", err),
			Line:     jsonErrorLine(trimmed, err),
		}
	}

	if catalog.Rules == nil {
		catalog.Rules = []domain.RuleRecord{}
	}
	return catalog, nil
}

func parseYAML(data []byte, path string) (domain.Catalog, *domain.LoadError) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Catalog{}, yamlLoadError(path, err)
	}

	var catalog domain.Catalog
	if len(doc.Content) > 0 {
		var err error
		if doc.Content[0].Kind == yaml.SequenceNode {
			err = doc.Content[0].Decode(&catalog.Rules)
		} else {
			err = doc.Content[0].Decode(&catalog)
		}
		if err != nil {
			return domain.Catalog{}, yamlLoadError(path, err)
		}
	}

	if catalog.Rules == nil {
		catalog.Rules = []domain.RuleRecord{}
	}
	return catalog, nil
}

func (p *Parser) validate(records []domain.RuleRecord, path string) ([]domain.RuleRecord, []domain.LoadError) {
	if p.validator == nil {
		return records, nil
	}

	kept := make([]domain.RuleRecord, 0, len(records))
	var dropped []domain.LoadError
	for i := range records {
		if err := p.validator.ValidateRecord(&records[i]); err != nil {
			dropped = append(dropped, domain.LoadError{
				FilePath: path,
				Error:    fmt.Sprintf("rules[%d] %q: %v", i, records[i].ID, err),
			})
			continue
		}
		kept = append(kept, records[i])
	}
	return kept, dropped
}

func yamlLoadError(path string, err error) *domain.LoadError {
	return &domain.LoadError{
		FilePath: path,
		Error:    fmt.Sprintf("failed to parse YAML: %v", err),
		Line:     extractYAMLErrorLine(err),
	}
}

// extractYAMLErrorLine reads the first "line N" mention of a yaml.v3 error
func extractYAMLErrorLine(err error) int {
	if err == nil {
		return 0
	}
	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	line, _ := strconv.Atoi(m[1])
	return line
}

func jsonErrorLine(data []byte, err error) int {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}
