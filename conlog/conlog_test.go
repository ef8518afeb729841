// SPDX-License-Identifier: GPL-2.0-or-later

package conlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileLog(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "goqbsp.log")
	cfg := DefaultFileConfig(logFile)
	cfg.Compress = false
	if err := InitWithFileConfig("info", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer InitWithFileConfig("info", FileConfig{}, false)

	Printf("compiled %s", "e1m1")
	DPrintf("hidden %d", 1)
	Warnf("dropped %d brushes", 2)
	Sync()

	b, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "compiled e1m1") {
		t.Errorf("log %q misses the info line", s)
	}
	if strings.Contains(s, "hidden") {
		t.Errorf("log %q has a debug line", s)
	}
	if !strings.Contains(s, "WARN") || !strings.Contains(s, "dropped 2 brushes") {
		t.Errorf("log %q misses the warning", s)
	}
}

func TestBadLevel(t *testing.T) {
	if err := Init("loud", ""); err == nil {
		t.Error("Init with a bad level did not fail")
	}
}
