package util

import (
	"github.com/spf13/viper"
	"strings"
	"testing"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		if len(line) > Wrap {
			t.Errorf("line exceeds %d characters: %q", Wrap, line)
		}
	}

	if got := WrapString("short text"); got != "short text" {
		t.Errorf("WrapString(short text) = %q", got)
	}

	long := strings.Repeat("x", Wrap+10)
	if got := WrapString(long); got != long {
		t.Errorf("a single long word must not be split, got %q", got)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, b,,c ,")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("splitList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTransportSelection(t *testing.T) {
	defer viper.Reset()

	for _, name := range []string{"tcp", "unix", "http"} {
		viper.Set("transport", name)
		if _, err := GetTransport(); err != nil {
			t.Errorf("GetTransport(%s): %v", name, err)
		}
		if _, err := GetServerTransport(); err != nil {
			t.Errorf("GetServerTransport(%s): %v", name, err)
		}
	}

	viper.Set("transport", "carrier-pigeon")
	if _, err := GetTransport(); err == nil {
		t.Error("expected an error for an unknown transport")
	}
}

func TestEnvironment(t *testing.T) {
	defer viper.Reset()
	t.Setenv("ZCRPC_TRANSPORT_ENDPOINTS", "a:1,b:2")
	t.Setenv("ZCRPC_TIMEOUT", "7")

	InitConfig()
	conf := GetClientConfig()

	if conf.TimeoutSecond != 7 {
		t.Errorf("TimeoutSecond = %d, want 7", conf.TimeoutSecond)
	}
	if len(conf.Transport.Endpoints) != 2 || conf.Transport.Endpoints[1] != "b:2" {
		t.Errorf("Endpoints = %v", conf.Transport.Endpoints)
	}
}
