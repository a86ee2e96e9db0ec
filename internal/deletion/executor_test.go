package deletion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"trackscan/internal/logging"
	"trackscan/internal/services"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestExecuteReplacesOriginalOnSuccess(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mkv")
	writeFile(t, input, "original container payload")

	cmd := Command{
		InputPath:      input,
		TempPath:       filepath.Join(dir, "movie_temp.mkv"),
		RemoveOrdinals: []int{1},
	}

	var gotArgs []string
	runner := func(ctx context.Context, binary string, args []string) ([]byte, error) {
		gotArgs = args
		writeFile(t, cmd.TempPath, "smaller payload")
		return nil, nil
	}

	executor := NewExecutor("ffmpeg", logging.NewNop(), WithRunner(runner))
	outcome, err := executor.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if outcome.SpaceSaved != outcome.InitialBytes-outcome.FinalBytes {
		t.Fatalf("inconsistent outcome: %+v", outcome)
	}
	if outcome.SpaceSaved <= 0 {
		t.Fatalf("expected positive savings, got %+v", outcome)
	}
	if len(gotArgs) == 0 || gotArgs[len(gotArgs)-1] != cmd.TempPath {
		t.Fatalf("runner args = %v", gotArgs)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		t.Fatalf("read replaced input: %v", err)
	}
	if string(data) != "smaller payload" {
		t.Fatalf("input not replaced, content = %q", data)
	}
	if _, err := os.Stat(cmd.TempPath); !os.IsNotExist(err) {
		t.Fatalf("temp file should be gone after rename, stat err = %v", err)
	}
}

func TestExecuteLeavesOriginalOnFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mkv")
	writeFile(t, input, "original container payload")

	cmd := Command{
		InputPath: input,
		TempPath:  filepath.Join(dir, "movie_temp.mkv"),
	}

	runner := func(ctx context.Context, binary string, args []string) ([]byte, error) {
		// Partial output left behind by a failed remux.
		writeFile(t, cmd.TempPath, "trunc")
		return []byte("muxer error"), errors.New("exit status 1")
	}

	executor := NewExecutor("ffmpeg", logging.NewNop(), WithRunner(runner))
	if _, err := executor.Execute(context.Background(), cmd); !errors.Is(err, services.ErrExecution) {
		t.Fatalf("expected ErrExecution, got %v", err)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		t.Fatalf("read input: %v", err)
	}
	if string(data) != "original container payload" {
		t.Fatalf("original modified on failure: %q", data)
	}
	if _, err := os.Stat(cmd.TempPath); !os.IsNotExist(err) {
		t.Fatalf("temp file should be cleaned up, stat err = %v", err)
	}
}

func TestExecuteFailsWhenFFmpegProducesNothing(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "movie.mkv")
	writeFile(t, input, "payload")

	cmd := Command{InputPath: input, TempPath: filepath.Join(dir, "movie_temp.mkv")}
	runner := func(ctx context.Context, binary string, args []string) ([]byte, error) {
		return nil, nil
	}

	executor := NewExecutor("ffmpeg", logging.NewNop(), WithRunner(runner))
	if _, err := executor.Execute(context.Background(), cmd); !errors.Is(err, services.ErrExecution) {
		t.Fatalf("expected ErrExecution, got %v", err)
	}
	data, err := os.ReadFile(input)
	if err != nil || string(data) != "payload" {
		t.Fatalf("original should survive: %q, %v", data, err)
	}
}

func TestExecuteMissingInput(t *testing.T) {
	cmd := Command{
		InputPath: filepath.Join(t.TempDir(), "absent.mkv"),
		TempPath:  filepath.Join(t.TempDir(), "absent_temp.mkv"),
	}
	executor := NewExecutor("ffmpeg", logging.NewNop(), WithRunner(func(ctx context.Context, binary string, args []string) ([]byte, error) {
		t.Fatal("runner should not be called")
		return nil, nil
	}))
	if _, err := executor.Execute(context.Background(), cmd); !errors.Is(err, services.ErrExecution) {
		t.Fatalf("expected ErrExecution, got %v", err)
	}
}
