package toolchain

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsToBareExecutableNames(t *testing.T) {
	os.Unsetenv("RUPC_ILASM")
	os.Unsetenv("RUPC_JASMIN")
	os.Unsetenv("RUPC_JAVA")
	cfg := Load()
	if cfg.Ilasm != "ilasm" || cfg.Jasmin != "jasmin" || cfg.Java != "java" {
		t.Fatalf("Load() = %+v, want bare-name defaults", cfg)
	}
}

func TestLoadHonorsEnvironmentOverrides(t *testing.T) {
	t.Setenv("RUPC_ILASM", "/opt/mono/ilasm")
	cfg := Load()
	if cfg.Ilasm != "/opt/mono/ilasm" {
		t.Fatalf("Ilasm = %q, want override to be honored", cfg.Ilasm)
	}
}

func TestRunCapturesStdoutAndExitCode(t *testing.T) {
	cfg := Config{}
	res, err := cfg.run("sh", "-c", "echo привет; exit 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stdout != "привет\n" {
		t.Fatalf("Stdout = %q, want %q", res.Stdout, "привет\n")
	}
	if res.ExitCode != 3 {
		t.Fatalf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestAssembleAndRunUnknownTarget(t *testing.T) {
	cfg := Config{}
	_, err := cfg.AssembleAndRun(Target("неизвестно"), "prog.ru", "")
	if err == nil {
		t.Fatal("expected an error for an unknown target")
	}
}

func TestRunCILWritesArtifactBesideSource(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "prog.ru")
	cfg := Config{Ilasm: "/path/does/not/exist/ilasm"}

	_, err := cfg.AssembleAndRun(CIL, source, "// il text")
	if err == nil {
		t.Fatal("expected an error since the assembler binary does not exist")
	}

	ilPath := filepath.Join(dir, "prog.il")
	if _, statErr := os.Stat(ilPath); statErr != nil {
		t.Fatalf("expected %s to be written before invoking the assembler: %v", ilPath, statErr)
	}
}
