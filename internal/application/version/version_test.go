package version

import "testing"

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); got != "flowctl/"+GetVersion() {
		t.Errorf("UserAgent() = %q", got)
	}
}

func TestBuildVersionOverride(t *testing.T) {
	saved := version
	t.Cleanup(func() { version = saved })

	version = "1.4.0"
	if got := UserAgent(); got != "flowctl/1.4.0" {
		t.Errorf("UserAgent() = %q", got)
	}
}
