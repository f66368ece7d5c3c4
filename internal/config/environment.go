package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/KazanKK/dbss/internal/fault"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEnvironment     = "test"
	DefaultSnapshotSuffix  = "_dbss"
	DefaultSnapshotFileTag = "ss"
	AppName                = "dbss"
)

// EnvironmentConfig is the resolved, per invocation view of one environment.
// It is not modified after Resolve returns it.
type EnvironmentConfig struct {
	Name            string
	Server          string
	Port            int
	User            string
	Password        string
	Databases       []string
	SnapshotSuffix  string
	SnapshotFileTag string
	Quiet           bool
}

// Whitelisted reports whether db (already upper-cased) may be operated on.
func (e *EnvironmentConfig) Whitelisted(db string) bool {
	for _, d := range e.Databases {
		if d == db {
			return true
		}
	}
	return false
}

// DSN returns a go-mssqldb connection URL against the master database. A
// named instance (host\INSTANCE) goes in the URL path.
func (e *EnvironmentConfig) DSN() string {
	host, instance, _ := strings.Cut(e.Server, `\`)
	if e.Port > 0 {
		host = net.JoinHostPort(host, strconv.Itoa(e.Port))
	}
	q := url.Values{}
	q.Set("database", "master")
	q.Set("app name", AppName)
	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(e.User, e.Password),
		Host:     host,
		RawQuery: q.Encode(),
	}
	if instance != "" {
		u.Path = "/" + instance
	}
	return u.String()
}

// EnvironmentSpec is the on-disk form of an environment.
type EnvironmentSpec struct {
	Server          string   `yaml:"server"`
	Port            int      `yaml:"port,omitempty"`
	User            string   `yaml:"user"`
	Password        string   `yaml:"password,omitempty"`
	Databases       []string `yaml:"databases"`
	SnapshotSuffix  string   `yaml:"snapshot_suffix,omitempty"`
	SnapshotFileTag string   `yaml:"snapshot_file_tag,omitempty"`
}

// FileConfig is the layout of dbss.yaml.
type FileConfig struct {
	Environments map[string]EnvironmentSpec `yaml:"environments"`
}

// Registry maps environment names to their specs.
type Registry struct {
	envs map[string]EnvironmentSpec
}

var builtinEnvironments = map[string]EnvironmentSpec{
	"test": {
		Server:   "db_test_01",
		User:     "RedactedAppUser",
		Password: "edward_snowden",
		Databases: []string{
			"CXSCORE", "CXSERVER", "IXDIRECTORY", "IXDIRECTORY_PXQUOTE",
			"IXDOC_CRU4", "IXDOC_PXQUOTE_CRU4", "IXLIBRARY_CRU4",
			"IXLOG", "IXLOGIC_CRU4", "IXPROFILER", "IXRELAY",
			"IXVOCAB", "PXCENTRAL_CRU4", "PXGATEWAY_CRU4",
			"PXPAY_CRU4", "PXPOWER_CRU4", "PXPROGRAM_CRU4",
			"PXSERVER_CRU4", "PXVAULT_CRU4",
		},
		SnapshotSuffix:  DefaultSnapshotSuffix,
		SnapshotFileTag: DefaultSnapshotFileTag,
	},
}

// NewRegistry returns a registry holding the built-in environments.
func NewRegistry() *Registry {
	r := &Registry{envs: make(map[string]EnvironmentSpec, len(builtinEnvironments))}
	for name, spec := range builtinEnvironments {
		r.envs[name] = spec
	}
	return r
}

// Merge adds the environments of fc, replacing built-ins with the same name.
func (r *Registry) Merge(fc *FileConfig) {
	if fc == nil {
		return
	}
	for name, spec := range fc.Environments {
		r.envs[name] = spec
	}
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.envs))
	for name := range r.envs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve builds the EnvironmentConfig for name. Unknown names fail with
// the unknown-environment code.
func (r *Registry) Resolve(name string, quiet bool) (*EnvironmentConfig, error) {
	spec, ok := r.envs[name]
	if !ok {
		return nil, fault.Configf(fault.UnknownEnvironment, "Environment '%s' Unknown", name)
	}
	if spec.Server == "" {
		return nil, fault.Configf(fault.UnknownEnvironment, "Environment '%s' has no server configured", name)
	}

	suffix := spec.SnapshotSuffix
	if suffix == "" {
		suffix = DefaultSnapshotSuffix
	}
	tag := spec.SnapshotFileTag
	if tag == "" {
		tag = DefaultSnapshotFileTag
	}

	return &EnvironmentConfig{
		Name:            name,
		Server:          spec.Server,
		Port:            spec.Port,
		User:            spec.User,
		Password:        spec.Password,
		Databases:       NormalizeDatabases(spec.Databases),
		SnapshotSuffix:  suffix,
		SnapshotFileTag: tag,
		Quiet:           quiet,
	}, nil
}

// NormalizeDatabases trims and upper-cases names, dropping blanks and
// duplicates while keeping the declared order.
func NormalizeDatabases(dbs []string) []string {
	seen := make(map[string]struct{}, len(dbs))
	out := make([]string, 0, len(dbs))
	for _, d := range dbs {
		d = strings.ToUpper(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}
	return &fc, nil
}

// Template returns the dbss.yaml contents written by the init command.
func Template(name string, spec EnvironmentSpec) ([]byte, error) {
	fc := FileConfig{Environments: map[string]EnvironmentSpec{name: spec}}
	data, err := yaml.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("creating yaml: %v", err)
	}
	return data, nil
}

// Builtin returns a copy of a built-in environment spec.
func Builtin(name string) (EnvironmentSpec, bool) {
	spec, ok := builtinEnvironments[name]
	if ok {
		spec.Databases = append([]string(nil), spec.Databases...)
	}
	return spec, ok
}
