package configs

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	cfg := Load(v)

	if cfg.BalancePolicy != BalancePolicyReject {
		t.Fatalf("expected default policy reject, got %q", cfg.BalancePolicy)
	}
	if !cfg.DocumentRequireNoteOnReject || !cfg.DocumentRequireNoteOnComplete {
		t.Fatalf("document note flags should default to true: %+v", cfg)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %s", cfg.JWTTTL)
	}
	if cfg.OSSEnabled() {
		t.Fatal("oss must be disabled without credentials")
	}
}

func TestLoadPolicyFromEnv(t *testing.T) {
	t.Setenv("FINANCE_BALANCE_POLICY", "CLAMP")
	t.Setenv("DOCUMENT_REQUIRE_NOTE_ON_COMPLETE", "false")

	cfg := Load(viper.New())
	if cfg.BalancePolicy != BalancePolicyClamp {
		t.Fatalf("expected clamp, got %q", cfg.BalancePolicy)
	}
	if cfg.DocumentRequireNoteOnComplete {
		t.Fatal("expected complete-note flag to be false")
	}
}

func TestNormalizePolicyUnknownFallsBackToReject(t *testing.T) {
	if got := normalizePolicy("allow_negative"); got != BalancePolicyReject {
		t.Fatalf("got %q", got)
	}
}
