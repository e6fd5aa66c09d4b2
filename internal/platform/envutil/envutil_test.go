package envutil

import (
	"reflect"
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("ENVUTIL_INT", "42")
	t.Setenv("ENVUTIL_BAD_INT", "forty")
	t.Setenv("ENVUTIL_BOOL", "yes")
	t.Setenv("ENVUTIL_LIST", " supplier, ,contractor ")
	t.Setenv("ENVUTIL_BLANK", "   ")
	t.Setenv("ENVUTIL_FLOAT", "0.25")

	if got := Int("ENVUTIL_INT", 1, nil); got != 42 {
		t.Fatalf("Int: want=42 got=%d", got)
	}
	if got := Int("ENVUTIL_BAD_INT", 7, nil); got != 7 {
		t.Fatalf("Int fallback: want=7 got=%d", got)
	}
	if got := Float("ENVUTIL_FLOAT", 1, nil); got != 0.25 {
		t.Fatalf("Float: want=0.25 got=%v", got)
	}
	if !Bool("ENVUTIL_BOOL", false, nil) {
		t.Fatalf("Bool: want=true")
	}
	if got := String("ENVUTIL_BLANK", "def", nil); got != "def" {
		t.Fatalf("String blank: want=def got=%q", got)
	}
	if got := List("ENVUTIL_LIST", nil, nil); !reflect.DeepEqual(got, []string{"supplier", "contractor"}) {
		t.Fatalf("List: got=%v", got)
	}
	if got := Seconds("ENVUTIL_INT", time.Second, nil); got != 42*time.Second {
		t.Fatalf("Seconds: got=%v", got)
	}
}
