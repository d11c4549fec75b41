package normalize

import "testing"

func TestEmail(t *testing.T) {
	cases := []struct{ in, want string }{
		{"  Admin@Example.COM  ", "admin@example.com"},
		{"plain@example.com", "plain@example.com"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Email(c.in); got != c.want {
			t.Errorf("Email(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestName(t *testing.T) {
	if got := Name("  Jane Doe  "); got != "Jane Doe" {
		t.Errorf("Name preserved case/whitespace wrong: %q", got)
	}
}

func TestRole(t *testing.T) {
	if got := Role(" Admin "); got != "admin" {
		t.Errorf("Role(%q) = %q, want %q", " Admin ", got, "admin")
	}
}

func TestPageKey(t *testing.T) {
	cases := []struct{ in, want string }{
		{" Hero ", "hero"},
		{"FOOTER", "footer"},
		{"about", "about"},
	}
	for _, c := range cases {
		if got := PageKey(c.in); got != c.want {
			t.Errorf("PageKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCategory(t *testing.T) {
	if got := Category(" Dental "); got != "dental" {
		t.Errorf("Category(%q) = %q, want %q", " Dental ", got, "dental")
	}
}
