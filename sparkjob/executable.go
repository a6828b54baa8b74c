// Package sparkjob submits cube build steps to spark cluster.
package sparkjob

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.ytsaurus.tech/library/go/core/log"
	"go.ytsaurus.tech/library/go/core/log/nop"
)

const (
	ParamClassName = "className"
	ParamJars      = "jars"

	hiveSite = "hive-site.xml"
)

// Executable is a single spark job.
//
// Parameters are passed to the entry class as -key value pairs, in order of first SetParam call.
type Executable struct {
	Logger log.Logger

	keys   []string
	params map[string]string
}

func (e *Executable) SetParam(key, value string) {
	if e.params == nil {
		e.params = map[string]string{}
	}
	if _, ok := e.params[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.params[key] = value
}

func (e *Executable) Param(key string) (string, bool) {
	v, ok := e.params[key]
	return v, ok
}

// SetClassName sets the class that entry class runs inside spark application.
func (e *Executable) SetClassName(className string) {
	e.SetParam(ParamClassName, className)
}

// SetJars sets comma separated list of jars passed to spark-submit.
func (e *Executable) SetJars(jars string) {
	e.SetParam(ParamJars, jars)
}

// FormatArgs returns arguments of the entry class.
//
// Class name goes first, jars are consumed by spark-submit itself and are not passed.
func (e *Executable) FormatArgs() []string {
	var args []string
	if className, ok := e.params[ParamClassName]; ok {
		args = append(args, "-"+ParamClassName, className)
	}

	for _, key := range e.keys {
		if key == ParamClassName || key == ParamJars {
			continue
		}
		args = append(args, "-"+key, e.params[key])
	}
	return args
}

// Command is fully resolved spark-submit invocation.
type Command struct {
	Path string
	Args []string
	// Env is added to the environment of the current process.
	Env []string
}

func (c *Command) String() string {
	parts := slices.Concat(c.Env, []string{c.Path}, c.Args)
	return strings.Join(parts, " ")
}

// Command validates config and builds spark-submit invocation.
func (e *Executable) Command(cfg *Config) (*Command, error) {
	className, ok := e.params[ParamClassName]
	if !ok || className == "" {
		return nil, &ConfigError{Field: ParamClassName, Reason: "class name is not set"}
	}

	sparkHome := cfg.SparkHomeOrDefault()
	if sparkHome == "" {
		return nil, &ConfigError{Field: "spark_home", Reason: "neither spark_home nor SPARK_HOME is set"}
	}
	submit := filepath.Join(sparkHome, "bin", "spark-submit")
	if err := checkFile(submit); err != nil {
		return nil, &ConfigError{Field: "spark_home", Reason: err.Error()}
	}

	hadoopConf := cfg.HadoopConfDirOrDefault()
	if hadoopConf == "" {
		return nil, &ConfigError{Field: "hadoop_conf_dir", Reason: "neither hadoop_conf_dir nor HADOOP_CONF_DIR is set"}
	}
	if err := checkFile(filepath.Join(hadoopConf, hiveSite)); err != nil {
		return nil, &ConfigError{Field: "hadoop_conf_dir", Reason: err.Error()}
	}

	if cfg.HBaseSitePath == "" {
		return nil, &ConfigError{Field: "hbase_site_path", Reason: "path is not set"}
	}
	hbaseSite, err := filepath.Abs(cfg.HBaseSitePath)
	if err != nil {
		return nil, &ConfigError{Field: "hbase_site_path", Reason: err.Error()}
	}
	if err := checkFile(hbaseSite); err != nil {
		return nil, &ConfigError{Field: "hbase_site_path", Reason: err.Error()}
	}

	if cfg.JobJar == "" {
		return nil, &ConfigError{Field: "job_jar", Reason: "path is not set"}
	}

	jars := cfg.JobJar
	if v, ok := e.params[ParamJars]; ok && v != "" {
		jars = v
	}

	args := []string{"--class", cfg.EntryClassOrDefault()}

	confKeys := make([]string, 0, len(cfg.SparkConf))
	for k := range cfg.SparkConf {
		confKeys = append(confKeys, k)
	}
	slices.Sort(confKeys)
	for _, k := range confKeys {
		args = append(args, "--conf", k+"="+cfg.SparkConf[k])
	}

	args = append(args, "--files", hbaseSite, "--jars", jars, cfg.JobJar)
	args = append(args, e.FormatArgs()...)

	return &Command{
		Path: submit,
		Args: args,
		Env:  []string{"HADOOP_CONF_DIR=" + hadoopConf},
	}, nil
}

func (e *Executable) logger() log.Logger {
	if e.Logger == nil {
		return &nop.Logger{}
	}
	return e.Logger
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &os.PathError{Op: "stat", Path: path, Err: errIsDir}
	}
	return nil
}
