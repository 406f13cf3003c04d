package pattern

import "testing"

func TestSanitize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"a.b", "a_b"},
		{"a!b", "ab"},
		{"Foo.Bar baz!", "Foo_Barbaz"},
		{"haxe.ds.StringMap", "haxe_ds_StringMap"},
		{"hl::types::ArrayObj", "hl__types__ArrayObj"},
		{"$Main", "Main"},
		{"_private", "_private"},
		{"Vec3<Float>", "Vec3Float"},
		{"café", "café"},
		{"cafe\u0301", "caf\u00e9"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
