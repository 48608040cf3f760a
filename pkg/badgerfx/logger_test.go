package badgerfx

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := newLogger(zap.New(core))

	l.Infof("replaying file %d\n", 7)
	l.Warningf("slow %s\n", "compaction")

	entries := logs.AllUntimed()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if entries[0].Level != zapcore.DebugLevel || entries[0].Message != "replaying file 7" {
		t.Errorf("unexpected entry %v %q", entries[0].Level, entries[0].Message)
	}
	if entries[1].Level != zapcore.WarnLevel || entries[1].Message != "slow compaction" {
		t.Errorf("unexpected entry %v %q", entries[1].Level, entries[1].Message)
	}
}

func TestConfig_GCInterval(t *testing.T) {
	if got := (Config{}).gcInterval(); got != defaultGCInterval {
		t.Errorf("expected default interval, got %s", got)
	}
	if got := (Config{GCInterval: time.Minute}).gcInterval(); got != time.Minute {
		t.Errorf("expected 1m, got %s", got)
	}
}
