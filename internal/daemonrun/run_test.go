package daemonrun

import (
	"os"
	"testing"

	"mediadock/internal/testsupport"
)

func TestReadPID(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	if _, alive := ReadPID(cfg); alive {
		t.Fatal("expected no pid before the file exists")
	}

	if err := writePIDFile(PIDPath(cfg)); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	pid, alive := ReadPID(cfg)
	if pid != os.Getpid() || !alive {
		t.Fatalf("ReadPID = %d %v, want %d true", pid, alive, os.Getpid())
	}

	if err := os.WriteFile(PIDPath(cfg), []byte("garbage\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, alive := ReadPID(cfg); alive {
		t.Fatal("expected garbage pid file to be rejected")
	}
}
