package model

import (
	"bytes"
	"io"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"

	_ "embed"
)

const (
	LogStderr  = "stderr"
	LogStdout  = "stdout"
	LogDiscard = "discard"
)

//go:embed config.cue
var cueSource []byte

var (
	cueCtx *cue.Context
	schema cue.Value
)

func init() {
	if len(cueSource) == 0 {
		panic("variable cueSource is empty")
	}
	cueCtx = cuecontext.New()
	compiled := cueCtx.CompileBytes(cueSource)
	if compiled.Err() != nil {
		panic(compiled.Err())
	}

	if err := compiled.Validate(); err != nil {
		panic(err)
	}

	schema = compiled.LookupPath(cue.ParsePath("#Config"))
	if schema.Err() != nil {
		panic(schema.Err())
	}
	if err := schema.Validate(); err != nil {
		panic(err)
	}
}

type Config struct {
	Version    int      `json:"version" yaml:"version"` // fixed 0 for now
	Analyzer   Command  `json:"analyzer" yaml:"analyzer"`
	Preprocess Command  `json:"preprocess" yaml:"preprocess"`
	Cleanup    Command  `json:"cleanup" yaml:"cleanup"`
	Wrapper    Command  `json:"wrapper" yaml:"wrapper"` // empty path => measure with rusage
	KillGrace  Duration `json:"kill_grace" yaml:"kill_grace"`
	Classify   Classify `json:"classify" yaml:"classify"`
	Output     Output   `json:"output" yaml:"output"`
	Service    Service  `json:"service" yaml:"service"`
}

// Command is an external executable with its arguments. Env entries are
// KEY=VALUE pairs added to the inherited environment.
type Command struct {
	Path string   `json:"path" yaml:"path"`
	Args []string `json:"args" yaml:"args"`
	Env  []string `json:"env" yaml:"env"`
}

type Classify struct {
	Strict bool `json:"strict" yaml:"strict"`
}

// Output names the artifacts, all relative to Dir. Empty BOM disables it.
type Output struct {
	Dir       string `json:"dir" yaml:"dir"`
	Table     string `json:"table" yaml:"table"`
	Narrative string `json:"narrative" yaml:"narrative"`
	BOM       string `json:"bom" yaml:"bom"`
}

type Service struct {
	Verbose bool   `json:"verbose" yaml:"verbose"`
	Log     string `json:"log" yaml:"log"` // "stderr"|"stdout"|"discard"|path
}

// LoadConfig validates YAML from r against CUE schema and decodes to Config.
// Values missing in the document are filled with the schema defaults.
func LoadConfig(r io.Reader) (Config, error) {
	var zero Config

	yamlFile, err := yaml.Extract("config.yaml", r)
	if err != nil {
		return zero, err
	}
	yamlValue := cueCtx.BuildFile(yamlFile)

	unified := schema.Unify(yamlValue)
	if err := unified.Validate(
		cue.All(),          // all constraints
		cue.Concrete(true), // no incomplete values
	); err != nil {
		return zero, err
	}

	var out Config
	if err := unified.Decode(&out); err != nil {
		return zero, err
	}
	out.expandEnv()

	return out, nil
}

// DefaultConfig returns the configuration made of schema defaults only.
func DefaultConfig() Config {
	cfg, err := LoadConfig(bytes.NewReader([]byte("version: 0\n")))
	if err != nil {
		panic(err)
	}
	return cfg
}
