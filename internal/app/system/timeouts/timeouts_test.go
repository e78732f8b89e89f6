package timeouts

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	Reset()

	if got := Ping(); got != DefaultPing {
		t.Errorf("Ping() = %v, want %v", got, DefaultPing)
	}
	if got := Short(); got != DefaultShort {
		t.Errorf("Short() = %v, want %v", got, DefaultShort)
	}
}

func TestConfigure(t *testing.T) {
	defer Reset()

	Configure(Config{Ping: 1 * time.Second})
	if got := Ping(); got != 1*time.Second {
		t.Errorf("Ping() = %v, want 1s", got)
	}
	// Zero fields keep the current value.
	if got := Short(); got != DefaultShort {
		t.Errorf("Short() = %v, want %v", got, DefaultShort)
	}

	Configure(Config{Short: 10 * time.Second})
	cur := Current()
	if cur.Ping != 1*time.Second || cur.Short != 10*time.Second {
		t.Errorf("Current() = %+v, want Ping 1s, Short 10s", cur)
	}

	Reset()
	cur = Current()
	if cur.Ping != DefaultPing || cur.Short != DefaultShort {
		t.Errorf("Current() after Reset = %+v, want defaults", cur)
	}
}
