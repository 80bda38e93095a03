// Package btrfs wraps the external btrfs and mount binaries behind the
// orchestrator and metadata-provider interfaces the decision logic depends
// on. All failures carry the captured stderr of the failed command.
package btrfs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/marcojez/btrfs-persist/pkg/persist/job"
)

type Tool struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Tool {
	return &Tool{log: log}
}

// CreateSnapshot creates a read-only snapshot of fsRoot at destPath.
func (t *Tool) CreateSnapshot(ctx context.Context, fsRoot, destPath string) error {
	return t.run(ctx, "btrfs", "subvolume", "snapshot", "-r", fsRoot, destPath)
}

// DeleteSnapshot removes the subvolume at location.
func (t *Tool) DeleteSnapshot(ctx context.Context, location string) error {
	return t.run(ctx, "btrfs", "subvolume", "delete", location)
}

// SendReceive pipes `btrfs send` into `btrfs receive`. With a non-nil base
// only the delta between base and target is streamed.
func (t *Tool) SendReceive(ctx context.Context, base *string, target, destDir string) error {
	sendArgs := []string{"send"}
	if base != nil {
		sendArgs = append(sendArgs, "-p", *base)
	}
	sendArgs = append(sendArgs, target)

	send := exec.CommandContext(ctx, "btrfs", sendArgs...)
	recv := exec.CommandContext(ctx, "btrfs", "receive", destDir)
	t.log.Debug("running transfer pipeline",
		zap.Strings("send", send.Args), zap.Strings("receive", recv.Args))

	pipe, err := send.StdoutPipe()
	if err != nil {
		return fmt.Errorf("%w: unable to connect send to receive: %v", job.ErrExternalCommand, err)
	}
	recv.Stdin = pipe
	var sendStderr, recvStderr bytes.Buffer
	send.Stderr = &sendStderr
	recv.Stderr = &recvStderr

	if err := send.Start(); err != nil {
		return commandError(send.Args, err, &sendStderr)
	}
	if err := recv.Start(); err != nil {
		send.Process.Kill()
		send.Wait()
		return commandError(recv.Args, err, &recvStderr)
	}
	// The receiver consumes the pipe, so it must be waited on first.
	recvErr := recv.Wait()
	sendErr := send.Wait()
	if sendErr != nil {
		return commandError(send.Args, sendErr, &sendStderr)
	}
	if recvErr != nil {
		return commandError(recv.Args, recvErr, &recvStderr)
	}
	return nil
}

// Mount mounts path, relying on an fstab entry for the device and options.
func (t *Tool) Mount(ctx context.Context, path string, readOnly bool) error {
	args := []string{}
	if readOnly {
		args = append(args, "-o", "ro")
	}
	args = append(args, path)
	return t.run(ctx, "mount", args...)
}

func (t *Tool) Unmount(ctx context.Context, path string) error {
	return t.run(ctx, "umount", path)
}

// CreationTime queries `btrfs subvolume show` for the authoritative zoned
// creation timestamp of the subvolume at location.
func (t *Tool) CreationTime(ctx context.Context, location string) (time.Time, error) {
	cmd := exec.CommandContext(ctx, "btrfs", "subvolume", "show", location)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	t.log.Debug("querying subvolume metadata", zap.Strings("command", cmd.Args))
	if err := cmd.Run(); err != nil {
		return time.Time{}, commandError(cmd.Args, err, &stderr)
	}
	return ParseCreationTime(stdout.String())
}

const creationTimePrefix = "Creation time:"

// The zone offset is printed with a leading space by current btrfs-progs;
// older releases omitted it.
var creationTimeLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05-0700",
}

// ParseCreationTime extracts the creation timestamp from `btrfs subvolume
// show` output.
func ParseCreationTime(out string) (time.Time, error) {
	for line := range strings.Lines(out) {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), creationTimePrefix)
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		for _, layout := range creationTimeLayouts {
			if ts, err := time.Parse(layout, rest); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized creation time %q", rest)
	}
	return time.Time{}, fmt.Errorf("no creation time in subvolume metadata")
}

func (t *Tool) run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	t.log.Debug("running command", zap.Strings("command", cmd.Args))
	if err := cmd.Run(); err != nil {
		return commandError(cmd.Args, err, &stderr)
	}
	return nil
}

func commandError(args []string, err error, stderr *bytes.Buffer) error {
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		return fmt.Errorf("%w: %s: %v", job.ErrExternalCommand, strings.Join(args, " "), err)
	}
	return fmt.Errorf("%w: %s: %v: %s", job.ErrExternalCommand, strings.Join(args, " "), err, msg)
}
