package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/manufgue/Monitor/internal/model"
)

// targetEntry is the per-host payload shared by both file formats.
type targetEntry struct {
	Port    int      `json:"port" yaml:"port"`
	Canal   string   `json:"canal" yaml:"canal"`
	Site    string   `json:"site" yaml:"site"`
	Regions []string `json:"regions" yaml:"regions"`
}

// yamlTarget is one list element in the YAML format.
type yamlTarget struct {
	Host        string `yaml:"host"`
	targetEntry `yaml:",inline"`
}

func (e targetEntry) toTarget(host string) model.HostTarget {
	return model.HostTarget{
		Host:    NormalizeCompactIP(host),
		Port:    e.Port,
		Canal:   e.Canal,
		Site:    e.Site,
		Regions: e.Regions,
	}
}

// LoadTargets reads the targets file. The extension selects the format: a
// YAML list for .yaml/.yml, otherwise a JSON object keyed by host. Targets
// come back in file order.
func LoadTargets(path string) ([]model.HostTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("targets: read file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAMLTargets(data)
	default:
		return decodeJSONTargets(data)
	}
}

// decodeJSONTargets walks the object through the token stream so the host
// order of the file survives; unmarshalling into a map would lose it.
func decodeJSONTargets(data []byte) ([]model.HostTarget, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("targets: parse json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("targets: top level must be an object keyed by host")
	}

	targets := []model.HostTarget{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("targets: parse json: %w", err)
		}
		host, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("targets: unexpected key token %v", keyTok)
		}
		var entry targetEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("targets: entry %q: %w", host, err)
		}
		targets = append(targets, entry.toTarget(host))
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("targets: parse json: %w", err)
	}
	return targets, nil
}

func decodeYAMLTargets(data []byte) ([]model.HostTarget, error) {
	var entries []yamlTarget
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("targets: parse yaml: %w", err)
	}
	targets := make([]model.HostTarget, 0, len(entries))
	for _, e := range entries {
		targets = append(targets, e.targetEntry.toTarget(e.Host))
	}
	return targets, nil
}

// NormalizeCompactIP rewrites digit-only host keys like "10216812233" into
// dotted-quad form ("102.168.122.33") when the digits distribute into four
// octets of at most 255 each. The split is as even as possible with the
// longer octets first. Anything else passes through unchanged.
func NormalizeCompactIP(host string) string {
	if len(host) < 4 || len(host) > 12 {
		return host
	}
	for i := 0; i < len(host); i++ {
		if host[i] < '0' || host[i] > '9' {
			return host
		}
	}

	base, rem := len(host)/4, len(host)%4
	octets := make([]string, 0, 4)
	pos := 0
	for i := 0; i < 4; i++ {
		size := base
		if i < rem {
			size++
		}
		n, err := strconv.Atoi(host[pos : pos+size])
		if err != nil || n > 255 {
			return host
		}
		pos += size
		octets = append(octets, strconv.Itoa(n))
	}
	return strings.Join(octets, ".")
}
