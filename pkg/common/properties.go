package common

import (
	"bufio"
	"io"
	"maps"
	"os"
	"strings"
)

// very, very simple properties file handling, doesn't support escaping, etc., just comments and name=value

type Properties interface {
	GetString(key string, def string) string
	GetInt(key string, def int) int
	SetString(key string, value string)
	Keys() []string
	Clone() Properties
}

type properties struct {
	props map[string]string
}

func (p properties) GetString(key string, def string) string {
	key = strings.TrimSpace(key)
	v, ok := p.props[key]
	if !ok {
		return def
	}
	return v
}

// GetInt returns def when the key is missing or not a number.
func (p properties) GetInt(key string, def int) int {
	v := p.GetString(key, "")
	if v == "" {
		return def
	}
	if i := ParseInt(v); i != 0 || v == "0" {
		return i
	}
	return def
}

func (p properties) SetString(key string, value string) {
	key = strings.TrimSpace(key)
	p.props[key] = value
}

func (p properties) Keys() []string {
	keys := make([]string, 0, len(p.props))
	for k := range p.props {
		keys = append(keys, k)
	}
	return keys
}

func (p properties) Clone() Properties {
	return properties{props: maps.Clone(p.props)}
}

func NewProperties(file string) (Properties, error) {
	inputFile, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer inputFile.Close()

	return NewPropertiesFromReader(inputFile)
}

// NewPropertiesFromReader splits each line at the first '=', so values may contain '='.
// Values are expanded against the environment.
func NewPropertiesFromReader(r io.Reader) (Properties, error) {
	p := properties{props: make(map[string]string)}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(s, "//") || strings.HasPrefix(s, "#") {
			continue
		}
		name, value, ok := strings.Cut(s, "=")
		if !ok {
			continue
		}
		p.props[strings.TrimSpace(name)] = os.ExpandEnv(strings.TrimSpace(value))
	}
	return &p, scanner.Err()
}
