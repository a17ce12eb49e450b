package vm

import "testing"

func TestUnquote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`"a\nb"`, "a\nb"},
		{`"tab\there"`, "tab\there"},
		{`"say \"hi\""`, `say "hi"`},
		{`"back\\slash"`, `back\slash`},
		{`"keep \q"`, `keep \q`},
		{`""`, ""},
		{`bare`, "bare"},
	}

	for _, tc := range tests {
		if got := Unquote(tc.input); got != tc.want {
			t.Errorf("Unquote(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestSubstitute(t *testing.T) {
	env := NewEnv()
	env.Set("balance", IntValue(42))
	env.Set("tot", IntValue(1))
	env.Set("total", FloatValue(2.5))
	env.Set("name", StringValue("ada"))

	tests := []struct {
		tmpl  string
		names []string
		want  string
	}{
		{"You have $balance", []string{"balance"}, "You have 42"},
		{"$name has $balance", []string{"name", "balance"}, "ada has 42"},
		{"$total", []string{"tot", "total"}, "2.5"},
		{"$tot!", []string{"tot", "total"}, "1!"},
		{"cost: $5", []string{"balance"}, "cost: $5"},
		{"$missing here", []string{"missing"}, " here"},
		{"no vars", []string{"balance"}, "no vars"},
		{"$balance$balance", []string{"balance"}, "4242"},
	}

	for _, tc := range tests {
		if got := Substitute(tc.tmpl, tc.names, env.Get); got != tc.want {
			t.Errorf("Substitute(%q, %v) = %q, want %q", tc.tmpl, tc.names, got, tc.want)
		}
	}
}
