package sparkjob

import (
	"os"
	"path/filepath"
	"time"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"go.ytsaurus.tech/yt/go/yson"
)

const (
	// DefaultEntryClass dispatches to the class passed as -className.
	DefaultEntryClass = "org.apache.kylin.common.util.SparkEntry"

	DefaultSubmitAttempts = 3
	DefaultMaxSubmitTime  = time.Minute
)

// Config describes spark installation and job defaults.
//
// Config is read from YSON file, or from YAML file when the file has .yaml or .yml extension.
type Config struct {
	// SparkHome is spark installation directory. If empty, SPARK_HOME env var is used.
	SparkHome string `yson:"spark_home" yaml:"spark_home"`

	// HadoopConfDir must contain hive-site.xml. If empty, HADOOP_CONF_DIR env var is used.
	HadoopConfDir string `yson:"hadoop_conf_dir" yaml:"hadoop_conf_dir"`

	// HBaseSitePath is shipped with the job via --files.
	HBaseSitePath string `yson:"hbase_site_path" yaml:"hbase_site_path"`

	// JobJar contains EntryClass. It is also used as --jars, if executable does not set jars.
	JobJar string `yson:"job_jar" yaml:"job_jar"`

	// EntryClass is passed to spark-submit --class, DefaultEntryClass if empty.
	// Executable class name is passed to it as -className.
	EntryClass string `yson:"entry_class" yaml:"entry_class"`

	// SparkConf is passed as --conf key=value.
	SparkConf map[string]string `yson:"spark_conf" yaml:"spark_conf"`

	SubmitAttempts *int           `yson:"submit_attempts" yaml:"submit_attempts"`
	MaxSubmitTime  *time.Duration `yson:"max_submit_time" yaml:"max_submit_time"`
}

func (c *Config) SparkHomeOrDefault() string {
	if c.SparkHome != "" {
		return c.SparkHome
	}
	return os.Getenv("SPARK_HOME")
}

func (c *Config) HadoopConfDirOrDefault() string {
	if c.HadoopConfDir != "" {
		return c.HadoopConfDir
	}
	return os.Getenv("HADOOP_CONF_DIR")
}

func (c *Config) EntryClassOrDefault() string {
	if c.EntryClass != "" {
		return c.EntryClass
	}
	return DefaultEntryClass
}

func (c *Config) SubmitAttemptsOrDefault() int {
	if c.SubmitAttempts != nil && *c.SubmitAttempts > 0 {
		return *c.SubmitAttempts
	}
	return DefaultSubmitAttempts
}

func (c *Config) MaxSubmitTimeOrDefault() time.Duration {
	if c.MaxSubmitTime != nil {
		return *c.MaxSubmitTime
	}
	return DefaultMaxSubmitTime
}

// LoadConfig reads config from file.
func LoadConfig(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("sparkjob: read config: %w", err)
	}

	var config Config
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &config)
	default:
		err = yson.Unmarshal(content, &config)
	}

	if err != nil {
		return nil, xerrors.Errorf("sparkjob: parse config %q: %w", path, err)
	}
	return &config, nil
}
