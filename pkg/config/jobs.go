package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/marcojez/btrfs-persist/pkg/persist/snapshot"
)

// DefaultRetention is the number of snapshots kept for a tag without an
// explicit <tag>_snapshots entry.
const DefaultRetention = 3

const retentionKeySuffix = "_snapshots"

// Job is one configured subvolume. Values are immutable once loaded and
// passed explicitly through all calls; nothing in the tool mutates or
// persists them.
type Job struct {
	Name              string         `mapstructure:"-"`
	Filesystem        string         `mapstructure:"filesystem"`
	SnapshotDir       string         `mapstructure:"snapshot_dir"`
	CreateSnapshotDir bool           `mapstructure:"create_snapshot_dir"`
	BackupDir         string         `mapstructure:"backup_dir"`
	CreateBackupDir   bool           `mapstructure:"create_backup_dir"`
	MountBackupFS     bool           `mapstructure:"mount_backup_fs"`
	BackupOnlyLatest  bool           `mapstructure:"backup_only_latest"`
	BackupTagPattern  string         `mapstructure:"backup_tag_pattern"`
	Retention         map[string]int `mapstructure:"-"`
}

// SnapshotPath returns the directory holding the job's snapshots.
func (j Job) SnapshotPath() string {
	return filepath.Join(j.Filesystem, j.SnapshotDir)
}

// RetentionFor returns the keep count configured for tag.
func (j Job) RetentionFor(tag string) int {
	if n, ok := j.Retention[tag]; ok {
		return n
	}
	return DefaultRetention
}

type Config struct {
	Jobs map[string]Job
}

// Resolve returns the named job.
func (c *Config) Resolve(name string) (Job, error) {
	job, ok := c.Jobs[name]
	if !ok {
		return Job{}, fmt.Errorf("%w: %q", ErrUnknownJob, name)
	}
	return job, nil
}

// Load reads the job configuration file. Each top-level table is one job;
// unset keys receive the documented defaults.
func Load(fsys afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fsys)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: unable to read %q: %v", ErrConfig, path, err)
	}

	cfg := &Config{Jobs: map[string]Job{}}
	for name, raw := range v.AllSettings() {
		values, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q: top-level key %q does not belong to a job section", ErrConfig, path, name)
		}
		job := Job{
			Name:              name,
			SnapshotDir:       ".btrfs",
			CreateSnapshotDir: true,
			BackupTagPattern:  snapshot.MatchAllTags,
			Retention:         map[string]int{},
		}
		if err := decodeJob(values, &job); err != nil {
			return nil, fmt.Errorf("%w: job %q: %v", ErrConfig, name, err)
		}
		if err := job.validate(); err != nil {
			return nil, fmt.Errorf("%w: job %q: %v", ErrConfig, name, err)
		}
		cfg.Jobs[name] = job
	}
	return cfg, nil
}

func decodeJob(values map[string]any, job *Job) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           job,
		WeaklyTypedInput: true,
		DecodeHook:       yesNoBoolHook(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(values); err != nil {
		return err
	}

	// Retention counts are dynamic keys of the form <tag>_snapshots.
	for key, raw := range values {
		tag, ok := strings.CutSuffix(key, retentionKeySuffix)
		if !ok || tag == "" {
			continue
		}
		n, err := cast.ToIntE(raw)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid retention count %v for key %q", raw, key)
		}
		job.Retention[tag] = n
	}
	return nil
}

func (j Job) validate() error {
	if j.Filesystem == "" {
		return fmt.Errorf("filesystem is required")
	}
	if snapshot.ContainsSeparator(j.Name) {
		return fmt.Errorf("job name must not contain the snapshot name separator")
	}
	for tag := range j.Retention {
		if snapshot.ContainsSeparator(tag) {
			return fmt.Errorf("tag %q must not contain the snapshot name separator", tag)
		}
	}
	if !doublestar.ValidatePattern(j.BackupTagPattern) {
		return fmt.Errorf("invalid backup_tag_pattern %q", j.BackupTagPattern)
	}
	return nil
}

// yesNoBoolHook accepts the yes/no spelling used throughout the
// configuration file in addition to plain booleans.
func yesNoBoolHook() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Bool {
			return data, nil
		}
		switch strings.ToLower(strings.TrimSpace(data.(string))) {
		case "yes", "true", "on", "1":
			return true, nil
		case "no", "false", "off", "0":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean %q", data)
	}
}
