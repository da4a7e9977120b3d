package datatransfer

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// Runner moves bulk data between resources. The migration executor talks to
// this interface so tests can substitute a fake.
type Runner interface {
	// DumpAndRestore streams a logical dump from source into target
	DumpAndRestore(ctx context.Context, source, target models.DatabaseInstance) error
	// SyncVolume copies volume contents from source host path to target host path
	SyncVolume(ctx context.Context, source, target models.Volume) error
	// RemoveVolumeData deletes the data behind a volume during rollback
	RemoveVolumeData(ctx context.Context, volume models.Volume) error
}

// ShellRunner shells out to the engine's native dump/restore tooling and to
// rsync for volumes. Commands run with a bounded timeout.
type ShellRunner struct {
	Timeout time.Duration
}

// NewShellRunner creates a runner with a default 30 minute command timeout
func NewShellRunner() *ShellRunner {
	return &ShellRunner{Timeout: 30 * time.Minute}
}

// DumpAndRestore pipes a logical dump of source into target
func (r *ShellRunner) DumpAndRestore(ctx context.Context, source, target models.DatabaseInstance) error {
	if !source.Engine.SupportsDump() {
		return fmt.Errorf("engine %s has no dump/restore support", source.Engine)
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	dump := dumpCommand(ctx, source)
	restore := restoreCommand(ctx, target)

	pipe, err := dump.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open dump pipe: %w", err)
	}
	restore.Stdin = pipe

	logrus.WithFields(logrus.Fields{
		"component": "datatransfer",
		"engine":    source.Engine,
		"source":    source.Name,
		"target":    target.Name,
	}).Info("starting dump/restore")

	if err := dump.Start(); err != nil {
		return fmt.Errorf("failed to start dump: %w", err)
	}
	if err := restore.Start(); err != nil {
		return fmt.Errorf("failed to start restore: %w", err)
	}
	if err := dump.Wait(); err != nil {
		return fmt.Errorf("dump failed: %w", err)
	}
	if err := restore.Wait(); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	return nil
}

func dumpCommand(ctx context.Context, db models.DatabaseInstance) *exec.Cmd {
	switch db.Engine {
	case models.DatabaseEngineMySQL, models.DatabaseEngineMariaDB:
		return exec.CommandContext(ctx, "mysqldump", "--single-transaction", db.DatabaseName)
	case models.DatabaseEngineMongoDB:
		return exec.CommandContext(ctx, "mongodump", "--archive", "--db", db.DatabaseName)
	default:
		return exec.CommandContext(ctx, "pg_dump", "--format=custom", db.DatabaseName)
	}
}

func restoreCommand(ctx context.Context, db models.DatabaseInstance) *exec.Cmd {
	switch db.Engine {
	case models.DatabaseEngineMySQL, models.DatabaseEngineMariaDB:
		return exec.CommandContext(ctx, "mysql", db.DatabaseName)
	case models.DatabaseEngineMongoDB:
		return exec.CommandContext(ctx, "mongorestore", "--archive", "--db", db.DatabaseName)
	default:
		return exec.CommandContext(ctx, "pg_restore", "--clean", "--if-exists", "--dbname", db.DatabaseName)
	}
}

// SyncVolume copies the source host path into the target host path
func (r *ShellRunner) SyncVolume(ctx context.Context, source, target models.Volume) error {
	if source.HostPath == "" || target.HostPath == "" {
		return fmt.Errorf("volume %s has no host path to sync", source.Name)
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "rsync", "-a", "--delete", source.HostPath+"/", target.HostPath+"/")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("rsync failed: %v: %s", err, out)
	}
	return nil
}

// RemoveVolumeData deletes the target-side copy of a volume
func (r *ShellRunner) RemoveVolumeData(ctx context.Context, volume models.Volume) error {
	if volume.HostPath == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "rm", "-rf", "--", volume.HostPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to remove volume data: %v: %s", err, out)
	}
	return nil
}
