package config

import "strconv"

// GetConfigFile returns the config file that was applied last, or "" when
// no file was read.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}

// Source reports where a field's value came from.
func (cws *ConfigWithSources) Source(field string) ConfigSource {
	if s, ok := cws.Sources[field]; ok {
		return s
	}
	return SourceDefault
}

func itoa(i int) string { return strconv.Itoa(i) }

func btoa(b bool) string { return strconv.FormatBool(b) }
