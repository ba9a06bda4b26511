package obs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fairyhunter13/course-catalog/internal/config"
)

func TestSetupLogger_DevAndProd(t *testing.T) {
	lg := SetupLogger(config.Config{AppEnv: "dev", OTELServiceName: "svc"})
	if lg == nil {
		t.Fatalf("nil logger")
	}
	lg2 := SetupLogger(config.Config{AppEnv: "prod", OTELServiceName: "svc"})
	if lg2 == nil {
		t.Fatalf("nil logger prod")
	}
}

func TestSetupLogger_MirrorsToRotatedFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "logs.json")
	lg := SetupLogger(config.Config{
		AppEnv:          "test",
		OTELServiceName: "course-catalog-service",
		LogPath:         logPath,
		LogMaxSizeMB:    1,
		LogMaxBackups:   3,
	})

	lg.Info("course-added", "course.code", "CS203")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, `"event":"course-added"`) {
		t.Fatalf("expected event key in log line, got %s", line)
	}
	if !strings.Contains(line, `"course.code":"CS203"`) {
		t.Fatalf("expected course.code in log line, got %s", line)
	}
	if !strings.Contains(line, `"service":"course-catalog-service"`) {
		t.Fatalf("expected service field in log line, got %s", line)
	}
}
