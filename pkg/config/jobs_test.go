package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadString(t *testing.T, content string) (*Config, error) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/btrfs-persist.conf", []byte(content), 0o644))
	return Load(fs, "/etc/btrfs-persist.conf")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadString(t, `
[home]
filesystem = "/mnt/home"
`)
	require.NoError(t, err)

	job, err := cfg.Resolve("home")
	require.NoError(t, err)
	assert.Equal(t, "home", job.Name)
	assert.Equal(t, "/mnt/home", job.Filesystem)
	assert.Equal(t, ".btrfs", job.SnapshotDir)
	assert.True(t, job.CreateSnapshotDir)
	assert.False(t, job.CreateBackupDir)
	assert.False(t, job.MountBackupFS)
	assert.False(t, job.BackupOnlyLatest)
	assert.Equal(t, "*", job.BackupTagPattern)
	assert.Equal(t, "/mnt/home/.btrfs", job.SnapshotPath())
	assert.Equal(t, DefaultRetention, job.RetentionFor("daily"))
}

func TestLoadFullJob(t *testing.T) {
	cfg, err := loadString(t, `
[home]
filesystem = "/mnt/home"
snapshot_dir = "snapshots"
create_snapshot_dir = "no"
backup_dir = "/backup/home"
create_backup_dir = "yes"
mount_backup_fs = "yes"
backup_only_latest = "yes"
backup_tag_pattern = "{daily,weekly}"
daily_snapshots = 7
weekly_snapshots = 4
`)
	require.NoError(t, err)

	job, err := cfg.Resolve("home")
	require.NoError(t, err)
	assert.Equal(t, "snapshots", job.SnapshotDir)
	assert.False(t, job.CreateSnapshotDir)
	assert.Equal(t, "/backup/home", job.BackupDir)
	assert.True(t, job.CreateBackupDir)
	assert.True(t, job.MountBackupFS)
	assert.True(t, job.BackupOnlyLatest)
	assert.Equal(t, "{daily,weekly}", job.BackupTagPattern)
	assert.Equal(t, 7, job.RetentionFor("daily"))
	assert.Equal(t, 4, job.RetentionFor("weekly"))
	assert.Equal(t, DefaultRetention, job.RetentionFor("monthly"))
}

func TestLoadPlainBooleans(t *testing.T) {
	cfg, err := loadString(t, `
[home]
filesystem = "/mnt/home"
mount_backup_fs = true
`)
	require.NoError(t, err)
	job, err := cfg.Resolve("home")
	require.NoError(t, err)
	assert.True(t, job.MountBackupFS)
}

func TestLoadMultipleJobs(t *testing.T) {
	cfg, err := loadString(t, `
[home]
filesystem = "/mnt/home"

[root]
filesystem = "/"
hourly_snapshots = 24
`)
	require.NoError(t, err)
	assert.Len(t, cfg.Jobs, 2)

	root, err := cfg.Resolve("root")
	require.NoError(t, err)
	assert.Equal(t, 24, root.RetentionFor("hourly"))
}

func TestResolveUnknownJob(t *testing.T) {
	cfg, err := loadString(t, `
[home]
filesystem = "/mnt/home"
`)
	require.NoError(t, err)

	_, err = cfg.Resolve("nope")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestLoadRejectsMissingFilesystem(t *testing.T) {
	_, err := loadString(t, `
[home]
snapshot_dir = "snapshots"
`)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadRejectsSeparatorInJobName(t *testing.T) {
	_, err := loadString(t, `
[my_snapshot_job]
filesystem = "/mnt/home"
`)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadRejectsInvalidBoolean(t *testing.T) {
	_, err := loadString(t, `
[home]
filesystem = "/mnt/home"
mount_backup_fs = "maybe"
`)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadRejectsInvalidRetention(t *testing.T) {
	_, err := loadString(t, `
[home]
filesystem = "/mnt/home"
daily_snapshots = -2
`)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadRejectsInvalidTagPattern(t *testing.T) {
	_, err := loadString(t, `
[home]
filesystem = "/mnt/home"
backup_tag_pattern = "[bad"
`)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestLoadMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Load(fs, "/etc/missing.conf")
	assert.ErrorIs(t, err, ErrConfig)
}
