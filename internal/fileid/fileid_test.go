package fileid

import (
	"strings"
	"testing"
)

func TestVersion_Deterministic(t *testing.T) {
	a := Version([]byte("catalog bytes"))
	b := Version([]byte("catalog bytes"))
	if a != b {
		t.Errorf("same content gave %q and %q", a, b)
	}
	if !strings.HasPrefix(a, prefix) {
		t.Errorf("version %q missing prefix", a)
	}
	if len(a) != len(prefix)+64 {
		t.Errorf("version length = %d", len(a))
	}
}

func TestVersion_DiffersByContent(t *testing.T) {
	if Version([]byte("a")) == Version([]byte("b")) {
		t.Error("different content should give different versions")
	}
}

func TestShort(t *testing.T) {
	v := Version([]byte("x"))
	if got := Short(v, 8); len(got) != 8 || strings.HasPrefix(got, prefix) {
		t.Errorf("Short(v, 8) = %q", got)
	}
	if got := Short("doc:abc", 0); got != "abc" {
		t.Errorf("Short with n=0 = %q", got)
	}
}
