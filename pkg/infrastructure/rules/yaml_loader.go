package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/fleetcast/pkg/domain/entities"
)

// LoadFile reads one rule set document
func LoadFile(filename string) (*entities.BusinessRuleSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule set file %s: %w", filename, err)
	}

	ruleSet, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rule set file %s: %w", filename, err)
	}
	if ruleSet.Name == "" {
		ruleSet.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	if err := ruleSet.Validate(); err != nil {
		return nil, fmt.Errorf("rule set file %s: %w", filename, err)
	}
	return ruleSet, nil
}

// LoadDir reads every *.yaml / *.yml rule set in dir, sorted by file name
func LoadDir(dir string) ([]*entities.BusinessRuleSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule set directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	ruleSets := make([]*entities.BusinessRuleSet, 0, len(names))
	for _, name := range names {
		ruleSet, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		ruleSets = append(ruleSets, ruleSet)
	}
	return ruleSets, nil
}

// Parse decodes a rule set document and fills implied fields
func Parse(data []byte) (*entities.BusinessRuleSet, error) {
	var ruleSet entities.BusinessRuleSet
	if err := yaml.Unmarshal(data, &ruleSet); err != nil {
		return nil, fmt.Errorf("failed to parse rule set: %w", err)
	}
	normalize(&ruleSet)
	return &ruleSet, nil
}

// Marshal encodes a rule set as YAML
func Marshal(ruleSet *entities.BusinessRuleSet) ([]byte, error) {
	data, err := yaml.Marshal(ruleSet)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rule set %s: %w", ruleSet.Name, err)
	}
	return data, nil
}

// WriteFile stores a rule set as a YAML document
func WriteFile(ruleSet *entities.BusinessRuleSet, filename string) error {
	data, err := Marshal(ruleSet)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write rule set file %s: %w", filename, err)
	}
	return nil
}

// normalize keys map entries by their map key and treats an unset penalty factor as 1
func normalize(ruleSet *entities.BusinessRuleSet) {
	locations := make(map[entities.LocationKey]entities.LocationProfile, len(ruleSet.Locations))
	for key, profile := range ruleSet.Locations {
		key = entities.NormalizeLocationKey(string(key))
		profile.Key = key
		if profile.TransitPenaltyFactor == 0 {
			profile.TransitPenaltyFactor = 1
		}
		locations[key] = profile
	}
	ruleSet.Locations = locations

	if ruleSet.DefaultLocation.Key == "" {
		ruleSet.DefaultLocation.Key = "DEFAULT"
	}
	if ruleSet.DefaultLocation.TransitPenaltyFactor == 0 {
		ruleSet.DefaultLocation.TransitPenaltyFactor = 1
	}

	activityTypes := make(map[entities.ActivityType]entities.ActivityTypeProfile, len(ruleSet.ActivityTypes))
	for code, profile := range ruleSet.ActivityTypes {
		code, _ = entities.ParseActivityType(string(code))
		profile.Code = code
		if profile.StandardBatchMultiplier == 0 {
			profile.StandardBatchMultiplier = 1
		}
		if profile.UltraDeepBatchMultiplier == 0 {
			profile.UltraDeepBatchMultiplier = 1
		}
		activityTypes[code] = profile
	}
	ruleSet.ActivityTypes = activityTypes

	aliases := make(map[string]entities.LocationKey, len(ruleSet.LocationAliases))
	for alias, key := range ruleSet.LocationAliases {
		aliases[alias] = entities.NormalizeLocationKey(string(key))
	}
	ruleSet.LocationAliases = aliases
}
