package directory

import (
	"context"
	"testing"

	"github.com/spf13/viper"
)

func TestGetUserProfile(t *testing.T) {
	d := NewStatic(map[string]string{"user-7": "Dana Facilities"})

	name, err := d.GetUserProfile(context.Background(), "user-7")
	if err != nil {
		t.Fatalf("GetUserProfile: %v", err)
	}
	if name != "Dana Facilities" {
		t.Errorf("name = %q", name)
	}

	if _, err := d.GetUserProfile(context.Background(), "user-ghost"); err == nil {
		t.Error("unknown user should be an error")
	}
}

func TestFromConfig(t *testing.T) {
	v := viper.New()
	v.Set("directory.users", map[string]string{"user-1": "Sam Ops"})

	d := FromConfig(v)
	name, err := d.GetUserProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetUserProfile: %v", err)
	}
	if name != "Sam Ops" {
		t.Errorf("name = %q", name)
	}
}
